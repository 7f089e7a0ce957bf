package service

import (
	"context"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/logger"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type NotificationService struct {
	Notifications NotificationStore
	Now           Clock
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{Notifications: store, Now: time.Now}
}

// Notify 通知是附带效果，失败只记录日志，不影响主流程
func (s *NotificationService) Notify(ctx context.Context, userID string, typ model.NotificationType, message string, relatedID *string) {
	n := &model.Notification{
		ID:        model.NewID("notif"),
		UserID:    userID,
		Message:   message,
		Type:      typ,
		RelatedID: relatedID,
		CreatedAt: s.Now(),
	}
	if err := s.Notifications.Create(ctx, n); err != nil {
		logger.Log.Error("Failed to create notification",
			zap.String("user_id", userID),
			zap.String("type", string(typ)),
			zap.Error(err),
		)
	}
}

func (s *NotificationService) List(ctx context.Context, actor *model.User) ([]model.Notification, error) {
	list, err := s.Notifications.ListByUser(ctx, actor.ID, util.MaxNotificationsShown)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Notification{}
	}
	return list, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, actor *model.User, id string) error {
	err := s.Notifications.MarkRead(ctx, id, actor.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrNotificationNotFound
	}
	return err
}
