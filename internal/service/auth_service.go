package service

import (
	"errors"
	"time"

	"educonnect_backend/internal/config"
	"educonnect_backend/internal/model"
	"educonnect_backend/internal/repository"
	"educonnect_backend/internal/util"
	"educonnect_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 登录保护阈值：连续失败 5 次锁定 15 分钟
const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenPair 访问令牌与刷新令牌
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResult 注册/登录的响应载荷
type AuthResult struct {
	User   *model.User   `json:"user"`
	Tokens TokenPair     `json:"tokens"`
	Streak *StreakResult `json:"streak,omitempty"`
}

// AuthService 注册、登录、令牌轮换与登录保护
type AuthService struct {
	DB            *gorm.DB
	Cfg           *config.Config
	Users         *repository.UserRepository
	RefreshTokens *repository.RefreshTokenRepository
	Progression   *ProgressionService
	Achievements  *AchievementService
}

func NewAuthService(db *gorm.DB, cfg *config.Config, users *repository.UserRepository,
	refreshTokens *repository.RefreshTokenRepository,
	progression *ProgressionService, achievements *AchievementService) *AuthService {
	return &AuthService{
		DB:            db,
		Cfg:           cfg,
		Users:         users,
		RefreshTokens: refreshTokens,
		Progression:   progression,
		Achievements:  achievements,
	}
}

// Register 注册并自动登录，注册即记一次连胜并解锁 first_login
func (s *AuthService) Register(req *RegisterRequest) (*AuthResult, error) {
	exists, err := s.Users.ExistsByEmailOrUsername(req.Email, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		Avatar:   "👤",
		Role:     model.Student,
		Level:    1,
	}
	if err := s.Users.Create(user); err != nil {
		if isDuplicateKey(err) {
			return nil, util.ErrUserExists
		}
		return nil, err
	}

	logger.Log.Info("user registered",
		zap.Uint("user_id", user.ID), zap.String("username", user.Username))

	return s.finishLogin(user)
}

// Login 邮箱密码登录。锁定期内直接拒绝；密码错误累计失败次数，
// 达到阈值后锁定账号。
func (s *AuthService) Login(req *LoginRequest) (*AuthResult, error) {
	user, err := s.Users.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.LockedUntil != nil && user.LockedUntil.After(time.Now()) {
		return nil, util.ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		failed := user.FailedLoginAttempts + 1
		var lockedUntil interface{}
		if failed >= maxFailedLogins {
			until := time.Now().Add(lockoutDuration)
			lockedUntil = until
			logger.Log.Warn("account locked after repeated failed logins",
				zap.Uint("user_id", user.ID))
		}
		if err := s.Users.UpdateLoginSecurity(user.ID, failed, lockedUntil); err != nil {
			logger.Log.Error("failed to record login failure", zap.Error(err))
		}
		return nil, util.ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		if err := s.Users.UpdateLoginSecurity(user.ID, 0, nil); err != nil {
			logger.Log.Error("failed to reset login security state", zap.Error(err))
		}
	}

	return s.finishLogin(user)
}

// finishLogin 登录共同收尾：结算连胜、解锁 first_login、签发令牌
func (s *AuthService) finishLogin(user *model.User) (*AuthResult, error) {
	streak, err := s.Progression.UpdateStreak(user.ID)
	if err != nil {
		return nil, err
	}

	// 成就失败不阻断登录
	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		return s.Achievements.UnlockByKey(tx, user.ID, "first_login")
	}); err != nil {
		logger.Log.Warn("first login achievement failed",
			zap.Uint("user_id", user.ID), zap.Error(err))
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	// 连胜结算改动了 streak/last_login_date，重读一份最新状态
	fresh, err := s.Users.FindByID(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: fresh, Tokens: *tokens, Streak: streak}, nil
}

func (s *AuthService) issueTokens(user *model.User) (*TokenPair, error) {
	access, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	refresh, err := util.GenerateRefreshToken(user.ID, s.Cfg.JWT.RefreshSecret, s.Cfg.JWT.RefreshExpireTime)
	if err != nil {
		return nil, err
	}

	if err := s.RefreshTokens.Create(&model.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(s.Cfg.JWT.RefreshExpireTime),
	}); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh 刷新令牌轮换：旧令牌必须既通过签名校验又存在于
// 服务端记录，换发后旧令牌立即失效。
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	userID, err := util.ParseRefreshToken(refreshToken, s.Cfg.JWT.RefreshSecret)
	if err != nil {
		return nil, util.ErrInvalidRefresh
	}

	stored, err := s.RefreshTokens.FindValid(refreshToken)
	if err != nil || stored.UserID != userID {
		return nil, util.ErrInvalidRefresh
	}

	user, err := s.Users.FindByID(userID)
	if err != nil {
		return nil, util.ErrInvalidRefresh
	}

	if err := s.RefreshTokens.DeleteByToken(refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

// Logout 吊销单个刷新令牌
func (s *AuthService) Logout(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.RefreshTokens.DeleteByToken(refreshToken)
}

// ChangePassword 修改密码并吊销该用户全部刷新令牌
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return util.NewUnauthorized("Current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashed)
	if err := s.Users.Update(user); err != nil {
		return err
	}

	return s.RefreshTokens.DeleteByUserID(userID)
}

// CurrentUser 按访问令牌中的用户 ID 取当前用户
func (s *AuthService) CurrentUser(userID uint) (*model.User, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
