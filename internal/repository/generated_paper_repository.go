package repository

import (
	"context"
	"edulearn_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type GeneratedPaperRepository struct {
	DB *gorm.DB
}

func NewGeneratedPaperRepository(db *gorm.DB) *GeneratedPaperRepository {
	return &GeneratedPaperRepository{DB: db}
}

func (r *GeneratedPaperRepository) Create(ctx context.Context, draft *model.GeneratedPaper) error {
	return r.DB.WithContext(ctx).Create(draft).Error
}

func (r *GeneratedPaperRepository) FindByID(ctx context.Context, id string) (*model.GeneratedPaper, error) {
	var draft model.GeneratedPaper
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&draft).Error
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *GeneratedPaperRepository) ListByCreator(ctx context.Context, userID string, limit int) ([]model.GeneratedPaper, error) {
	var drafts []model.GeneratedPaper
	err := r.DB.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&drafts).Error
	return drafts, err
}

// MarkPublished 仅更新尚未发布的草稿；草稿已被并发发布时返回 gorm.ErrRecordNotFound
func (r *GeneratedPaperRepository) MarkPublished(ctx context.Context, id, paperID string, at time.Time) error {
	result := r.DB.WithContext(ctx).
		Model(&model.GeneratedPaper{}).
		Where("id = ? AND is_published = ?", id, false).
		Updates(map[string]interface{}{
			"is_published":       true,
			"published_paper_id": paperID,
			"published_at":       at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
