package service

import (
	"context"
	"edulearn_backend/internal/model"
	"time"
)

// 服务层依赖的存储接口，由 repository 包实现

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindPendingTeachers(ctx context.Context) ([]model.User, error)
	SetApproval(ctx context.Context, id string, approved bool) (*model.User, error)
}

type SessionStore interface {
	Upsert(ctx context.Context, session *model.Session) error
	FindByToken(ctx context.Context, token string) (*model.Session, error)
	DeleteByToken(ctx context.Context, token string) error
}

type PaperStore interface {
	Create(ctx context.Context, paper *model.Paper) error
	FindByID(ctx context.Context, id string) (*model.Paper, error)
	List(ctx context.Context, filter model.PaperFilter, limit int) ([]model.Paper, error)
}

type GeneratedPaperStore interface {
	Create(ctx context.Context, draft *model.GeneratedPaper) error
	FindByID(ctx context.Context, id string) (*model.GeneratedPaper, error)
	ListByCreator(ctx context.Context, userID string, limit int) ([]model.GeneratedPaper, error)
	MarkPublished(ctx context.Context, id, paperID string, at time.Time) error
}

// ResultStore 只追加
type ResultStore interface {
	Create(ctx context.Context, result *model.TestResult) error
	FindByID(ctx context.Context, id string) (*model.TestResult, error)
	ListByStudent(ctx context.Context, studentID string, limit int) ([]model.TestResult, error)
}

// ProgressCache 按学生代数存放汇总，Invalidate 递增代数使旧条目失效
type ProgressCache interface {
	Generation(ctx context.Context, studentID string) (int64, error)
	Get(ctx context.Context, studentID string, gen int64) (*model.ProgressSummary, bool, error)
	Set(ctx context.Context, studentID string, gen int64, summary *model.ProgressSummary) error
	Invalidate(ctx context.Context, studentID string) error
}

type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type DoubtStore interface {
	Create(ctx context.Context, d *model.Doubt) error
	FindByID(ctx context.Context, id string) (*model.Doubt, error)
	List(ctx context.Context, studentID, status string, limit int) ([]model.Doubt, error)
	SaveAnswer(ctx context.Context, d *model.Doubt) error
}

// Clock 便于测试时固定时间
type Clock func() time.Time
