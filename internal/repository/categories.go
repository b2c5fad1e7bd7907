package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/forumkit/forum-search-service/internal/domain"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a gorm-backed category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// ChildIDs expands the given ids with all descendant category ids,
// level by level.
func (r *categoryRepository) ChildIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		seen[id] = true
		out = append(out, id)
	}

	frontier := out
	for len(frontier) > 0 {
		var children []int64
		err := r.db.WithContext(ctx).
			Model(&Category{}).
			Where("parent_cid IN ? AND disabled = ?", frontier, false).
			Pluck("cid", &children).Error
		if err != nil {
			return nil, fmt.Errorf("failed to expand child categories: %w", err)
		}

		frontier = frontier[:0]
		for _, cid := range children {
			if !seen[cid] {
				seen[cid] = true
				out = append(out, cid)
				frontier = append(frontier, cid)
			}
		}
	}

	return out, nil
}

func (r *categoryRepository) WatchedIDs(ctx context.Context, uid int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&CategoryWatch{}).
		Where("uid = ?", uid).
		Pluck("cid", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load watched categories: %w", err)
	}
	return ids, nil
}

func (r *categoryRepository) NamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}

	var categories []Category
	err := r.db.WithContext(ctx).
		Where("cid IN ?", ids).
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.CID] = c.Name
	}
	return names, nil
}

func (r *categoryRepository) Search(ctx context.Context, query string, offset, limit int) ([]domain.CategoryResult, int, error) {
	pattern := "%" + query + "%"

	var total int64
	err := r.db.WithContext(ctx).
		Model(&Category{}).
		Where("name LIKE ? AND disabled = ?", pattern, false).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	var categories []Category
	err = r.db.WithContext(ctx).
		Where("name LIKE ? AND disabled = ?", pattern, false).
		Order("name").
		Offset(offset).
		Limit(limit).
		Find(&categories).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search categories: %w", err)
	}

	results := make([]domain.CategoryResult, 0, len(categories))
	for _, c := range categories {
		results = append(results, domain.CategoryResult{
			CID:         c.CID,
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
		})
	}
	return results, int(total), nil
}
