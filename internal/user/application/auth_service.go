// Package application 实现用户注册、登录与资料服务。
package application

import (
	"context"
	"strings"
	"time"

	cartapp "github.com/aurorajewels/storefront/internal/cart/application"
	"github.com/aurorajewels/storefront/internal/user/domain"
	"github.com/aurorajewels/storefront/pkg/logger"
	"github.com/aurorajewels/storefront/pkg/middleware"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterCommand 注册命令
type RegisterCommand struct {
	Email    string
	Password string
	Name     string
	// 游客会话，注册即登录时并入其购物车
	SessionID string
}

// LoginCommand 登录命令
type LoginCommand struct {
	Email    string
	Password string
	// 游客会话，登录时并入其购物车
	SessionID string
}

// AuthResult 签发结果
type AuthResult struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// AuthService 认证服务
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionStore
	jwt      *middleware.JWTManager
	cart     *cartapp.CartCommandService
	tokenTTL time.Duration
}

// NewAuthService 创建认证服务实例
func NewAuthService(users domain.UserRepository, sessions domain.SessionStore,
	jwt *middleware.JWTManager, cart *cartapp.CartCommandService, tokenTTLHours int) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		jwt:      jwt,
		cart:     cart,
		tokenTTL: time.Duration(tokenTTLHours) * time.Hour,
	}
}

// Register 注册并立即签发登录态
func (s *AuthService) Register(ctx context.Context, cmd RegisterCommand) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if len(cmd.Password) < 8 {
		return nil, domain.ErrWeakPassword
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         cmd.Name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "User registered", "uid", user.UID)
	return s.issue(ctx, user, cmd.SessionID)
}

// Login 校验密码并签发登录态，游客购物车并入用户名下
func (s *AuthService) Login(ctx context.Context, cmd LoginCommand) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(ctx, user, cmd.SessionID)
}

// Logout 删除服务端会话
func (s *AuthService) Logout(ctx context.Context, uid string) error {
	return s.sessions.Delete(ctx, uid)
}

// Profile 获取用户资料
func (s *AuthService) Profile(ctx context.Context, uid string) (*domain.User, error) {
	return s.users.GetByUID(ctx, uid)
}

// UpdateProfileCommand 更新资料命令
type UpdateProfileCommand struct {
	UID            string
	Name           string
	AddressLine1   string
	AddressCity    string
	AddressState   string
	AddressPostal  string
	AddressCountry string
}

// UpdateProfile 更新姓名与默认收货地址
func (s *AuthService) UpdateProfile(ctx context.Context, cmd UpdateProfileCommand) (*domain.User, error) {
	user, err := s.users.GetByUID(ctx, cmd.UID)
	if err != nil {
		return nil, err
	}

	user.Name = cmd.Name
	user.AddressLine1 = cmd.AddressLine1
	user.AddressCity = cmd.AddressCity
	user.AddressState = cmd.AddressState
	user.AddressPostal = cmd.AddressPostal
	user.AddressCountry = cmd.AddressCountry

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(ctx context.Context, user *domain.User, sessionID string) (*AuthResult, error) {
	token, exp, err := s.jwt.Issue(user.UID, user.IsAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, user.UID, token, s.tokenTTL); err != nil {
		// 会话记录失败不阻断登录，只影响主动登出
		logger.Warn(ctx, "Failed to record login session", "uid", user.UID, "error", err)
	}

	// 游客购物车跟随账号
	if err := s.cart.MergeSessionIntoUser(ctx, sessionID, user.UID); err != nil {
		logger.Warn(ctx, "Failed to merge guest cart", "uid", user.UID, "error", err)
	}

	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}
