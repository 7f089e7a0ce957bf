package repository

import (
	"context"
	"edulearn_backend/internal/model"

	"gorm.io/gorm"
)

// ResultRepository 成绩只追加，不提供修改和删除
type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

func (r *ResultRepository) Create(ctx context.Context, result *model.TestResult) error {
	return r.DB.WithContext(ctx).Create(result).Error
}

func (r *ResultRepository) FindByID(ctx context.Context, id string) (*model.TestResult, error) {
	var result model.TestResult
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListByStudent 最新的在前
func (r *ResultRepository) ListByStudent(ctx context.Context, studentID string, limit int) ([]model.TestResult, error) {
	var results []model.TestResult
	err := r.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error
	return results, err
}
