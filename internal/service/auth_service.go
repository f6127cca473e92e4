package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"fabula/internal/model/auth"
	"fabula/internal/pkg/oauthx"
	"fabula/internal/pkg/password"
	authRepo "fabula/internal/repository/auth"
)

var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrUserAlreadyExists = errors.New("邮箱已被注册")
	ErrInvalidPassword   = errors.New("密码错误")
	ErrInvalidEmail      = errors.New("邮箱格式无效")
	ErrWeakPassword      = errors.New("密码长度至少为6位")
)

// AuthService 认证服务
// 本地账户与 Google 账户统一存储，登录时 upsert 合并资料
type AuthService struct {
	userRepo *authRepo.UserRepo
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo *authRepo.UserRepo) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// Signup 本地邮箱密码注册
func (s *AuthService) Signup(ctx context.Context, email, pwd, name string) (*auth.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(pwd) < 6 {
		return nil, ErrWeakPassword
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		log.Error().Err(err).Msg("failed to check email existence")
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hashed, err := password.Hash(pwd)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	user := &auth.User{
		ID:           auth.LocalUserID(email),
		Email:        email,
		Name:         name,
		Provider:     auth.ProviderLocal,
		PasswordHash: hashed,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		log.Error().Err(err).Msg("failed to create local user")
		return nil, err
	}

	log.Info().Str("user_id", user.ID).Msg("local user registered")
	return user, nil
}

// Login 本地邮箱密码登录
func (s *AuthService) Login(ctx context.Context, email, pwd string) (*auth.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByID(ctx, auth.LocalUserID(email))
	if err != nil {
		if errors.Is(err, authRepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !password.Verify(pwd, user.PasswordHash) {
		return nil, ErrInvalidPassword
	}

	if err := s.userRepo.UpdateLastLoginAt(ctx, user.ID); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login time")
	}

	return user, nil
}

// LoginWithGoogle Google OAuth 登录
// 首次登录创建用户，后续登录合并覆盖资料字段
func (s *AuthService) LoginWithGoogle(ctx context.Context, profile *oauthx.Profile) (*auth.User, error) {
	user := &auth.User{
		ID:       profile.Sub,
		Email:    strings.ToLower(profile.Email),
		Name:     profile.Name,
		Picture:  profile.Picture,
		Provider: auth.ProviderGoogle,
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to upsert google user")
		return nil, err
	}

	log.Info().Str("user_id", user.ID).Msg("google user logged in")
	return user, nil
}

// ExistsByEmail 检查邮箱是否已注册
func (s *AuthService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return s.userRepo.ExistsByEmail(ctx, email)
}

// GetUser 查询用户资料
func (s *AuthService) GetUser(ctx context.Context, userID string) (*auth.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, authRepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
