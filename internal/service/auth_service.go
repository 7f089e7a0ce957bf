package service

import (
	"context"
	"edulearn_backend/internal/config"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/logger"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name     string         `json:"name" validate:"required"`
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required,min=6"`
	Role     model.UserRole `json:"role" validate:"omitempty,oneof=student teacher"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SessionLoginRequest struct {
	SessionID string         `json:"session_id" validate:"required"`
	Role      model.UserRole `json:"role" validate:"omitempty,oneof=student teacher"`
}

// AuthResult 登录成功后返回的凭证与用户
type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type AuthService struct {
	Users    UserStore
	Sessions SessionStore
	Gate     *AuthGate
	Verifier SessionVerifier
	Admin    config.AdminConfig
	// 外部会话有效期
	SessionTTL time.Duration
	Now        Clock
}

func NewAuthService(users UserStore, sessions SessionStore, gate *AuthGate, verifier SessionVerifier, cfg *config.Config) *AuthService {
	return &AuthService{
		Users:      users,
		Sessions:   sessions,
		Gate:       gate,
		Verifier:   verifier,
		Admin:      cfg.Admin,
		SessionTTL: cfg.Session.TTL,
		Now:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Role == "" {
		req.Role = model.Student
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	_, err := s.Users.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hash := string(hashedPassword)

	user := &model.User{
		ID:         model.NewID("user"),
		Email:      req.Email,
		Name:       req.Name,
		Role:       req.Role,
		Password:   &hash,
		IsApproved: model.ApprovedOnCreate(req.Role),
		CreatedAt:  s.Now(),
	}
	// 并发注册同一邮箱时由唯一索引兜底
	if err := s.Users.Create(ctx, user); errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, util.ErrEmailRegistered
	} else if err != nil {
		return nil, err
	}

	logger.Log.Info("User registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.Users.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrInvalidLogin
	}
	if err != nil {
		return nil, err
	}

	// 外部会话注册的账号没有密码
	if user.Password == nil {
		return nil, util.ErrInvalidLogin
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(req.Password)); err != nil {
		return nil, util.ErrInvalidLogin
	}
	return s.issue(user)
}

// AdminLogin 校验配置中的管理员账号，首次登录时创建用户记录
func (s *AuthService) AdminLogin(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	email := normalizeEmail(req.Email)
	if s.Admin.Email == "" || email != normalizeEmail(s.Admin.Email) || req.Password != s.Admin.Password {
		return nil, util.ErrInvalidLogin
	}

	user, err := s.Users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &model.User{
			ID:         model.NewID("user"),
			Email:      email,
			Name:       "Admin",
			Role:       model.Admin,
			IsApproved: true,
			CreatedAt:  s.Now(),
		}
		user, err = s.createOrReload(ctx, user)
		if err != nil {
			return nil, err
		}
		logger.Log.Info("Admin user created", zap.String("user_id", user.ID))
	} else if err != nil {
		return nil, err
	}

	if user.Role != model.Admin {
		return nil, util.ErrForbidden
	}
	return s.issue(user)
}

// SessionLogin 外部会话登录。首次登录时按请求角色创建账号，已有账号沿用原角色。
// 返回的 Token 为会话令牌，由控制器写入 Cookie。
func (s *AuthService) SessionLogin(ctx context.Context, req *SessionLoginRequest) (*AuthResult, error) {
	if req.Role == "" {
		req.Role = model.Student
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	identity, err := s.Verifier.Verify(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(identity.Email)
	user, err := s.Users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &model.User{
			ID:         model.NewID("user"),
			Email:      email,
			Name:       identity.Name,
			Role:       req.Role,
			IsApproved: model.ApprovedOnCreate(req.Role),
			Picture:    identity.Picture,
			CreatedAt:  s.Now(),
		}
		user, err = s.createOrReload(ctx, user)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	now := s.Now()
	session := &model.Session{
		UserID:       user.ID,
		SessionToken: identity.SessionToken,
		ExpiresAt:    now.Add(s.SessionTTL),
		CreatedAt:    now,
	}
	if err := s.Sessions.Upsert(ctx, session); err != nil {
		return nil, err
	}

	return &AuthResult{Token: session.SessionToken, User: user}, nil
}

// Logout 删除会话；令牌登录的凭证无需服务端处理
func (s *AuthService) Logout(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}
	err := s.Sessions.DeleteByToken(ctx, sessionToken)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// createOrReload 首次登录建号；并发请求已抢先建号时改用已有记录
func (s *AuthService) createOrReload(ctx context.Context, user *model.User) (*model.User, error) {
	err := s.Users.Create(ctx, user)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return s.Users.FindByEmail(ctx, user.Email)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.Gate.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}
