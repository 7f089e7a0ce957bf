package service

import (
	"context"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/logger"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ApproveTeacherRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	Approve *bool  `json:"approve" validate:"required"`
}

type AdminService struct {
	Users         UserStore
	Notifications *NotificationService
}

func NewAdminService(users UserStore, notifications *NotificationService) *AdminService {
	return &AdminService{Users: users, Notifications: notifications}
}

func (s *AdminService) PendingTeachers(ctx context.Context, actor *model.User) ([]model.User, error) {
	if err := RequireRole(actor, model.Admin); err != nil {
		return nil, err
	}
	users, err := s.Users.FindPendingTeachers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// SetTeacherApproval 并发修改时以最后一次写入为准
func (s *AdminService) SetTeacherApproval(ctx context.Context, actor *model.User, req *ApproveTeacherRequest) (*model.User, error) {
	if err := RequireRole(actor, model.Admin); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	approve := *req.Approve
	user, err := s.Users.SetApproval(ctx, req.UserID, approve)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	typ, message := model.NotificationTeacherApproved, "Your teacher account has been approved"
	if !approve {
		typ, message = model.NotificationTeacherRevoked, "Your teacher approval has been revoked"
	}
	s.Notifications.Notify(ctx, user.ID, typ, message, nil)

	logger.Log.Info("Teacher approval changed",
		zap.String("user_id", user.ID),
		zap.Bool("approved", approve),
		zap.String("admin_id", actor.ID),
	)
	return user, nil
}
