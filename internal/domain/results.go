package domain

// PostResult is one matched post or topic title.
type PostResult struct {
	PID        int64   `json:"pid,omitempty"`
	TID        int64   `json:"tid"`
	UID        int64   `json:"uid"`
	CID        int64   `json:"cid"`
	Title      string  `json:"title"`
	Content    string  `json:"content,omitempty"`
	Timestamp  int64   `json:"timestamp"`
	ReplyCount int     `json:"replyCount"`
	Score      float64 `json:"score,omitempty"`
}

// UserResult is one matched user, also reused for "posted by" chips.
type UserResult struct {
	UID      int64  `json:"uid"`
	Username string `json:"username"`
	Userslug string `json:"userslug"`
	Picture  string `json:"picture"`
}

// TagResult is one matched tag, also reused for tag filter chips.
type TagResult struct {
	Value      string `json:"value"`
	TopicCount int64  `json:"score"`
}

// CategoryResult is one matched category.
type CategoryResult struct {
	CID         int64  `json:"cid"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

// SearchResult is what the search engine collaborator returns. Exactly one
// of the result slices is populated, depending on the scope searched.
type SearchResult struct {
	Posts      []PostResult     `json:"posts,omitempty"`
	Users      []UserResult     `json:"users,omitempty"`
	Tags       []TagResult      `json:"tags,omitempty"`
	Categories []CategoryResult `json:"categories,omitempty"`
	MatchCount int              `json:"matchCount"`
	PageCount  int              `json:"pageCount"`
}
