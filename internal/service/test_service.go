package service

import (
	"context"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/logger"
	"edulearn_backend/pkg/monitoring"
	"edulearn_backend/pkg/tracing"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TestService struct {
	Papers   PaperStore
	Results  ResultStore
	Progress ProgressCache
	Now      Clock
}

func NewTestService(papers PaperStore, results ResultStore, progress ProgressCache) *TestService {
	return &TestService{
		Papers:   papers,
		Results:  results,
		Progress: progress,
		Now:      time.Now,
	}
}

// Submit 评分并保存成绩。同一试卷允许多次提交，每次生成独立的成绩记录。
func (s *TestService) Submit(ctx context.Context, actor *model.User, sub Submission) (*model.TestResult, error) {
	if err := RequireRole(actor, model.Student); err != nil {
		return nil, err
	}
	if err := validateStruct(sub); err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "test.submit",
		attribute.String("paper_id", sub.PaperID),
		attribute.String("student_id", actor.ID),
	)
	var err error
	defer func() { tracing.EndSpan(span, err) }()

	paper, err := s.Papers.FindByID(ctx, sub.PaperID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = util.ErrPaperNotFound
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	result := ScoreSubmission(paper, sub)
	result.ID = model.NewID("result")
	result.StudentID = actor.ID
	result.CreatedAt = s.Now()

	if err = s.Results.Create(ctx, result); err != nil {
		return nil, err
	}

	s.invalidateProgress(ctx, actor.ID)
	monitoring.TestsSubmitted.WithLabelValues(result.ExamType).Inc()

	logger.Log.Info("Test submitted",
		zap.String("result_id", result.ID),
		zap.String("paper_id", result.PaperID),
		zap.String("student_id", actor.ID),
		zap.Int("score", result.Score),
	)
	return result, nil
}

// 缓存失效失败不影响提交结果，缓存会在 TTL 后过期
func (s *TestService) invalidateProgress(ctx context.Context, studentID string) {
	if s.Progress == nil {
		return
	}
	if err := s.Progress.Invalidate(ctx, studentID); err != nil {
		logger.Log.Warn("Failed to invalidate progress cache",
			zap.String("student_id", studentID),
			zap.Error(err),
		)
	}
}

func (s *TestService) ListResults(ctx context.Context, actor *model.User) ([]model.TestResult, error) {
	if err := RequireRole(actor, model.Student); err != nil {
		return nil, err
	}
	results, err := s.Results.ListByStudent(ctx, actor.ID, util.MaxResultsPerStudent)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []model.TestResult{}
	}
	return results, nil
}

func (s *TestService) GetResult(ctx context.Context, actor *model.User, id string) (*model.TestResult, error) {
	if err := RequireRole(actor, model.Student); err != nil {
		return nil, err
	}
	result, err := s.Results.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}
	if result.StudentID != actor.ID {
		return nil, util.ErrForbidden
	}
	return result, nil
}
