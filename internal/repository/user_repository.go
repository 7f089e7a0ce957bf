package repository

import (
	"context"
	"edulearn_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindPendingTeachers 待审核的教师，按注册时间先后
func (r *UserRepository) FindPendingTeachers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.DB.WithContext(ctx).
		Where("role = ? AND is_approved = ?", model.Teacher, false).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

// SetApproval 只作用于教师账号；非教师或不存在时返回 gorm.ErrRecordNotFound
func (r *UserRepository) SetApproval(ctx context.Context, id string, approved bool) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND role = ?", id, model.Teacher).First(&user).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).Update("is_approved", approved).Error; err != nil {
			return err
		}
		user.IsApproved = approved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
