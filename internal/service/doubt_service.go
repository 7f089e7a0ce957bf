package service

import (
	"context"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

type DoubtCreateRequest struct {
	Subject       string  `json:"subject" validate:"required"`
	QuestionText  string  `json:"question_text" validate:"required"`
	QuestionImage *string `json:"question_image"`
}

type DoubtAnswerRequest struct {
	AnswerText  string  `json:"answer_text" validate:"required"`
	AnswerImage *string `json:"answer_image"`
}

type DoubtService struct {
	Doubts        DoubtStore
	Notifications *NotificationService
	Now           Clock
}

func NewDoubtService(doubts DoubtStore, notifications *NotificationService) *DoubtService {
	return &DoubtService{Doubts: doubts, Notifications: notifications, Now: time.Now}
}

func (s *DoubtService) Create(ctx context.Context, actor *model.User, req *DoubtCreateRequest) (*model.Doubt, error) {
	if err := RequireRole(actor, model.Student); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	d := &model.Doubt{
		ID:            model.NewID("doubt"),
		StudentID:     actor.ID,
		StudentName:   actor.Name,
		Subject:       req.Subject,
		QuestionText:  req.QuestionText,
		QuestionImage: req.QuestionImage,
		Status:        model.DoubtPending,
		CreatedAt:     s.Now(),
	}
	if err := s.Doubts.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// List 学生只能看到自己的提问，教师和管理员可以看到全部
func (s *DoubtService) List(ctx context.Context, actor *model.User, status string) ([]model.Doubt, error) {
	if status != "" && status != model.DoubtPending && status != model.DoubtAnswered {
		return nil, util.NewValidationError("status", "must be one of [pending answered]")
	}

	studentID := ""
	if actor.Role == model.Student {
		studentID = actor.ID
	}

	list, err := s.Doubts.List(ctx, studentID, status, util.MaxDoubtsPerPage)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Doubt{}
	}
	return list, nil
}

func (s *DoubtService) Answer(ctx context.Context, actor *model.User, id string, req *DoubtAnswerRequest) (*model.Doubt, error) {
	if err := requireApprovedTeacher(actor); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	d, err := s.Doubts.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrDoubtNotFound
	}
	if err != nil {
		return nil, err
	}

	now := s.Now()
	answer := req.AnswerText
	d.Status = model.DoubtAnswered
	d.AnswerText = &answer
	d.AnswerImage = req.AnswerImage
	d.AnsweredBy = &actor.ID
	d.AnsweredAt = &now

	if err := s.Doubts.SaveAnswer(ctx, d); err != nil {
		return nil, err
	}

	s.Notifications.Notify(ctx, d.StudentID, model.NotificationDoubtAnswered,
		"Your doubt in "+d.Subject+" has been answered", &d.ID)
	return d, nil
}
