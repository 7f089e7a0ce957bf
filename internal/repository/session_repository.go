package repository

import (
	"context"
	"edulearn_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

// 每个用户只保留一条会话，新登录覆盖旧会话
var sessionUpsert = clause.OnConflict{
	Columns:   []clause.Column{{Name: "user_id"}},
	DoUpdates: clause.AssignmentColumns([]string{"session_token", "expires_at", "created_at"}),
}

func (r *SessionRepository) Upsert(ctx context.Context, session *model.Session) error {
	return r.DB.WithContext(ctx).Clauses(sessionUpsert).Create(session).Error
}

func (r *SessionRepository) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	var session model.Session
	err := r.DB.WithContext(ctx).Where("session_token = ?", token).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	return r.DB.WithContext(ctx).Where("session_token = ?", token).Delete(&model.Session{}).Error
}
