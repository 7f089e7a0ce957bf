package repository

import (
	"context"
	"edulearn_backend/internal/model"

	"gorm.io/gorm"
)

type DoubtRepository struct {
	DB *gorm.DB
}

func NewDoubtRepository(db *gorm.DB) *DoubtRepository {
	return &DoubtRepository{DB: db}
}

func (r *DoubtRepository) Create(ctx context.Context, d *model.Doubt) error {
	return r.DB.WithContext(ctx).Create(d).Error
}

func (r *DoubtRepository) FindByID(ctx context.Context, id string) (*model.Doubt, error) {
	var d model.Doubt
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List studentID 为空时返回全部学生的提问
func (r *DoubtRepository) List(ctx context.Context, studentID, status string, limit int) ([]model.Doubt, error) {
	query := r.DB.WithContext(ctx).Model(&model.Doubt{})
	if studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var list []model.Doubt
	err := query.Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *DoubtRepository) SaveAnswer(ctx context.Context, d *model.Doubt) error {
	return r.DB.WithContext(ctx).Model(d).Updates(map[string]interface{}{
		"status":       d.Status,
		"answer_text":  d.AnswerText,
		"answer_image": d.AnswerImage,
		"answered_by":  d.AnsweredBy,
		"answered_at":  d.AnsweredAt,
	}).Error
}
