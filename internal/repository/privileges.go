package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

const (
	groupGuests     = "guests"
	groupRegistered = "registered-users"
)

type privilegeRepository struct {
	db *gorm.DB
}

// NewPrivilegeRepository creates a gorm-backed privilege repository.
// Privileges are granted per group; a user holds a privilege when any of
// their groups holds a grant for it.
func NewPrivilegeRepository(db *gorm.DB) PrivilegeRepository {
	return &privilegeRepository{db: db}
}

func (r *privilegeRepository) Can(ctx context.Context, uid int64, privilege string) (bool, error) {
	groups, err := r.groupsOf(ctx, uid)
	if err != nil {
		return false, err
	}

	var count int64
	err = r.db.WithContext(ctx).
		Model(&PrivilegeGrant{}).
		Where("privilege = ? AND group_name IN ?", privilege, groups).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check privilege %s: %w", privilege, err)
	}
	return count > 0, nil
}

func (r *privilegeRepository) groupsOf(ctx context.Context, uid int64) ([]string, error) {
	if uid == 0 {
		return []string{groupGuests}, nil
	}

	var user User
	err := r.db.WithContext(ctx).First(&user, "uid = ?", uid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Unknown uid: treat as guest rather than failing the request.
			return []string{groupGuests}, nil
		}
		return nil, fmt.Errorf("failed to load user %d: %w", uid, err)
	}

	return append([]string{groupRegistered}, user.Groups...), nil
}
