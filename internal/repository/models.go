package repository

import "github.com/forumkit/forum-search-service/pkg/database"

// Category is one node of the category tree.
type Category struct {
	CID         int64  `gorm:"column:cid;primaryKey"`
	ParentCID   int64  `gorm:"column:parent_cid;index"`
	Name        string `gorm:"column:name"`
	Slug        string `gorm:"column:slug"`
	Description string `gorm:"column:description"`
	Disabled    bool   `gorm:"column:disabled"`
}

func (Category) TableName() string { return "categories" }

// CategoryWatch marks a category a user watches.
type CategoryWatch struct {
	UID int64 `gorm:"column:uid;primaryKey"`
	CID int64 `gorm:"column:cid;primaryKey"`
}

func (CategoryWatch) TableName() string { return "category_watch" }

// User is the subset of the forum user record this service reads.
type User struct {
	UID      int64                `gorm:"column:uid;primaryKey"`
	Username string               `gorm:"column:username;index"`
	Userslug string               `gorm:"column:userslug;index"`
	Picture  string               `gorm:"column:picture"`
	Groups   database.StringArray `gorm:"column:groups;type:text"`
}

func (User) TableName() string { return "users" }

// Tag is one forum tag with its usage count.
type Tag struct {
	Value      string `gorm:"column:value;primaryKey"`
	TopicCount int64  `gorm:"column:topic_count"`
}

func (Tag) TableName() string { return "tags" }

// PrivilegeGrant gives a named privilege to a user group.
type PrivilegeGrant struct {
	GroupName string `gorm:"column:group_name;primaryKey"`
	Privilege string `gorm:"column:privilege;primaryKey"`
}

func (PrivilegeGrant) TableName() string { return "privilege_grants" }
