package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/forumkit/forum-search-service/internal/domain"
)

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a gorm-backed tag repository.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) ByValues(ctx context.Context, values []string) ([]domain.TagResult, error) {
	if len(values) == 0 {
		return nil, nil
	}

	var tags []Tag
	err := r.db.WithContext(ctx).
		Where("value IN ?", values).
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}

	byValue := make(map[string]Tag, len(tags))
	for _, t := range tags {
		byValue[t.Value] = t
	}

	// Preserve the order requested; unknown tags still show as chips.
	results := make([]domain.TagResult, 0, len(values))
	for _, v := range values {
		results = append(results, domain.TagResult{
			Value:      v,
			TopicCount: byValue[v].TopicCount,
		})
	}
	return results, nil
}
