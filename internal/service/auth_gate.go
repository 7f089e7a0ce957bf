package service

import (
	"context"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/monitoring"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Outcome int

const (
	NotApplicable Outcome = iota
	Found
	Invalid
	Expired
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case Invalid:
		return "invalid"
	case Expired:
		return "expired"
	}
	return "not_applicable"
}

// Resolution 单个凭证解析策略的结果，Outcome 非 Found 时 Err 说明原因
type Resolution struct {
	Outcome Outcome
	User    *model.User
	Err     error
}

type CredentialResolver interface {
	Resolve(ctx context.Context, credential string) Resolution
}

// SessionResolver 外部会话登录产生的 session token
type SessionResolver struct {
	Sessions SessionStore
	Users    UserStore
	Now      Clock
}

func (r *SessionResolver) Resolve(ctx context.Context, credential string) Resolution {
	session, err := r.Sessions.FindByToken(ctx, credential)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Resolution{Outcome: NotApplicable}
	}
	if err != nil {
		return Resolution{Outcome: Invalid, Err: err}
	}

	if session.Expired(r.Now()) {
		return Resolution{Outcome: Expired, Err: util.ErrSessionExpired}
	}

	user, err := r.Users.FindByID(ctx, session.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Resolution{Outcome: Invalid, Err: util.ErrUnauthenticated}
	}
	if err != nil {
		return Resolution{Outcome: Invalid, Err: err}
	}
	return Resolution{Outcome: Found, User: user}
}

// TokenResolver HS256 签名令牌
type TokenResolver struct {
	Secret string
	Users  UserStore
}

func (r *TokenResolver) Resolve(ctx context.Context, credential string) Resolution {
	claims, err := util.ParseJWT(credential, r.Secret)
	if errors.Is(err, util.ErrCredentialExpired) {
		return Resolution{Outcome: Expired, Err: err}
	}
	if err != nil {
		return Resolution{Outcome: Invalid, Err: err}
	}

	user, err := r.Users.FindByID(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Resolution{Outcome: Invalid, Err: util.ErrUnauthenticated}
	}
	if err != nil {
		return Resolution{Outcome: Invalid, Err: err}
	}
	return Resolution{Outcome: Found, User: user}
}

// AuthGate 按固定顺序尝试各解析策略，遇到第一个非 NotApplicable 的结果即停止
type AuthGate struct {
	Resolvers []CredentialResolver
	Secret    string
	TokenTTL  time.Duration
}

func NewAuthGate(sessions SessionStore, users UserStore, secret string, tokenTTL time.Duration) *AuthGate {
	return &AuthGate{
		Resolvers: []CredentialResolver{
			&SessionResolver{Sessions: sessions, Users: users, Now: time.Now},
			&TokenResolver{Secret: secret, Users: users},
		},
		Secret:   secret,
		TokenTTL: tokenTTL,
	}
}

func (g *AuthGate) ResolveIdentity(ctx context.Context, credential string) (*model.User, error) {
	if credential == "" {
		monitoring.AuthFailures.WithLabelValues("missing").Inc()
		return nil, util.ErrUnauthenticated
	}

	for _, resolver := range g.Resolvers {
		res := resolver.Resolve(ctx, credential)
		switch res.Outcome {
		case NotApplicable:
			continue
		case Found:
			return res.User, nil
		default:
			monitoring.AuthFailures.WithLabelValues(res.Outcome.String()).Inc()
			return nil, res.Err
		}
	}

	monitoring.AuthFailures.WithLabelValues("unresolved").Inc()
	return nil, util.ErrUnauthenticated
}

func (g *AuthGate) IssueToken(userID string) (string, error) {
	return util.GenerateJWT(userID, g.Secret, g.TokenTTL)
}

// RequireRole 角色不在允许列表中时返回 ErrForbidden，未知角色一律拒绝
func RequireRole(user *model.User, roles ...model.UserRole) error {
	if user == nil {
		return util.ErrUnauthenticated
	}
	if !user.Role.Valid() {
		return util.ErrForbidden
	}
	for _, role := range roles {
		if user.Role == role {
			return nil
		}
	}
	return util.ErrForbidden
}

// RequireApproved 仅未审核的教师会被拒绝
func RequireApproved(user *model.User) error {
	if user == nil {
		return util.ErrUnauthenticated
	}
	if user.Role == model.Teacher && !user.IsApproved {
		return util.ErrPendingApproval
	}
	return nil
}

// requireApprovedTeacher 教师专属写操作的前置校验
func requireApprovedTeacher(user *model.User) error {
	if err := RequireRole(user, model.Teacher); err != nil {
		return err
	}
	return RequireApproved(user)
}
