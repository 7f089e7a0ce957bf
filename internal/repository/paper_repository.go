package repository

import (
	"context"
	"edulearn_backend/internal/model"

	"gorm.io/gorm"
)

type PaperRepository struct {
	DB *gorm.DB
}

func NewPaperRepository(db *gorm.DB) *PaperRepository {
	return &PaperRepository{DB: db}
}

func (r *PaperRepository) Create(ctx context.Context, paper *model.Paper) error {
	return r.DB.WithContext(ctx).Create(paper).Error
}

func (r *PaperRepository) FindByID(ctx context.Context, id string) (*model.Paper, error) {
	var paper model.Paper
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&paper).Error
	if err != nil {
		return nil, err
	}
	return &paper, nil
}

func (r *PaperRepository) List(ctx context.Context, filter model.PaperFilter, limit int) ([]model.Paper, error) {
	var papers []model.Paper
	err := filterPapers(r.DB.WithContext(ctx), filter).
		Order("created_at DESC").
		Limit(limit).
		Find(&papers).Error
	return papers, err
}

// filterPapers 空字段不参与过滤
func filterPapers(db *gorm.DB, filter model.PaperFilter) *gorm.DB {
	query := db.Model(&model.Paper{})
	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}
	if filter.ExamType != "" {
		query = query.Where("exam_type = ?", filter.ExamType)
	}
	if filter.ClassLevel != "" {
		query = query.Where("class_level = ?", filter.ClassLevel)
	}
	if filter.Year != "" {
		query = query.Where("year = ?", filter.Year)
	}

	return query
}
