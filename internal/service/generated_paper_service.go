package service

import (
	"context"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/logger"
	"edulearn_backend/pkg/monitoring"
	"edulearn_backend/pkg/tracing"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxDraftsPerTeacher = 50

// DraftCreateRequest 外部出题服务返回的草稿
type DraftCreateRequest struct {
	Title      string          `json:"title" validate:"required"`
	Subject    string          `json:"subject" validate:"required"`
	Difficulty string          `json:"difficulty"`
	ExamType   string          `json:"exam_type" validate:"required"`
	SubType    *string         `json:"sub_type"`
	ClassLevel *string         `json:"class_level"`
	Language   string          `json:"language"`
	Questions  []QuestionInput `json:"questions" validate:"required,min=1,dive"`
}

type GeneratedPaperService struct {
	Drafts GeneratedPaperStore
	Papers PaperStore
	Now    Clock
}

func NewGeneratedPaperService(drafts GeneratedPaperStore, papers PaperStore) *GeneratedPaperService {
	return &GeneratedPaperService{Drafts: drafts, Papers: papers, Now: time.Now}
}

func (s *GeneratedPaperService) CreateDraft(ctx context.Context, actor *model.User, req *DraftCreateRequest) (*model.GeneratedPaper, error) {
	if err := requireApprovedTeacher(actor); err != nil {
		return nil, err
	}
	if req.Language == "" {
		req.Language = model.DefaultLanguage
	}
	for i := range req.Questions {
		if strings.TrimSpace(req.Questions[i].QuestionID) == "" {
			req.Questions[i].QuestionID = "q" + strconv.Itoa(i+1)
		}
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	draft := &model.GeneratedPaper{
		ID:         model.NewID("gen"),
		CreatedBy:  actor.ID,
		Title:      req.Title,
		Subject:    req.Subject,
		Difficulty: req.Difficulty,
		ExamType:   req.ExamType,
		SubType:    req.SubType,
		ClassLevel: req.ClassLevel,
		Language:   req.Language,
		Questions:  datatypes.NewJSONSlice(toQuestions(req.Questions)),
		CreatedAt:  s.Now(),
	}
	if err := s.Drafts.Create(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *GeneratedPaperService) List(ctx context.Context, actor *model.User) ([]model.GeneratedPaper, error) {
	if err := RequireRole(actor, model.Teacher); err != nil {
		return nil, err
	}
	drafts, err := s.Drafts.ListByCreator(ctx, actor.ID, maxDraftsPerTeacher)
	if err != nil {
		return nil, err
	}
	if drafts == nil {
		drafts = []model.GeneratedPaper{}
	}
	return drafts, nil
}

func (s *GeneratedPaperService) Get(ctx context.Context, actor *model.User, id string) (*model.GeneratedPaper, error) {
	if err := RequireRole(actor, model.Teacher); err != nil {
		return nil, err
	}
	return s.ownedDraft(ctx, actor, id)
}

func (s *GeneratedPaperService) ownedDraft(ctx context.Context, actor *model.User, id string) (*model.GeneratedPaper, error) {
	draft, err := s.Drafts.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrGeneratedPaperNotFound
	}
	if err != nil {
		return nil, err
	}
	if draft.CreatedBy != actor.ID {
		return nil, util.ErrForbidden
	}
	return draft, nil
}

// Publish 以请求体为准创建正式试卷，再将草稿标记为已发布。
// 请求体在身份、归属、发布状态校验通过后才解析，非所有者无论请求体是否合法都得到 ErrForbidden。
// 两次写入不在同一事务中：试卷创建成功而标记失败时返回 PartialFailureError，试卷保留。
func (s *GeneratedPaperService) Publish(ctx context.Context, id string, body []byte, actor *model.User) (paper *model.Paper, err error) {
	ctx, span := tracing.StartSpan(ctx, "generated_paper.publish", attribute.String("gen_paper_id", id))
	defer func() { tracing.EndSpan(span, err) }()

	if err = requireApprovedTeacher(actor); err != nil {
		return nil, err
	}

	draft, err := s.ownedDraft(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if draft.IsPublished {
		return nil, util.ErrAlreadyPublished
	}

	payload, err := DecodePaperCreateRequest(body)
	if err != nil {
		return nil, err
	}
	if err = payload.Validate(); err != nil {
		return nil, err
	}

	now := s.Now()
	paper = payload.ToPaper(actor.ID, now)
	if err = s.Papers.Create(ctx, paper); err != nil {
		return nil, err
	}

	if markErr := s.Drafts.MarkPublished(ctx, draft.ID, paper.ID, now); markErr != nil {
		monitoring.PublishPartialFailures.Inc()
		err = &util.PartialFailureError{
			Operation:  "publish generated paper",
			ResourceID: paper.ID,
			Err:        markErr,
		}
		return paper, err
	}

	monitoring.PapersPublished.Inc()
	logger.Log.Info("Generated paper published",
		zap.String("gen_paper_id", draft.ID),
		zap.String("paper_id", paper.ID),
		zap.String("teacher_id", actor.ID),
	)
	return paper, nil
}
