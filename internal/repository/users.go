package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/forumkit/forum-search-service/internal/domain"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a gorm-backed user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) UIDsByUsernames(ctx context.Context, usernames []string) ([]int64, error) {
	if len(usernames) == 0 {
		return nil, nil
	}

	var uids []int64
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where("username IN ?", usernames).
		Pluck("uid", &uids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve usernames: %w", err)
	}
	return uids, nil
}

func (r *userRepository) ByUsernames(ctx context.Context, usernames []string) ([]domain.UserResult, error) {
	if len(usernames) == 0 {
		return nil, nil
	}

	var users []User
	err := r.db.WithContext(ctx).
		Where("username IN ?", usernames).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	results := make([]domain.UserResult, 0, len(users))
	for _, u := range users {
		results = append(results, domain.UserResult{
			UID:      u.UID,
			Username: u.Username,
			Userslug: u.Userslug,
			Picture:  u.Picture,
		})
	}
	return results, nil
}
