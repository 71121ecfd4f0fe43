package service

import (
	"testing"
	"time"

	"educonnect_backend/internal/config"
	"educonnect_backend/internal/model"
	"educonnect_backend/internal/repository"
	"educonnect_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db, progression, achievements := newTestStack(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.RefreshSecret = "test-refresh-secret"
	cfg.JWT.ExpireTime = 15 * time.Minute
	cfg.JWT.RefreshExpireTime = 7 * 24 * time.Hour
	return NewAuthService(db, cfg, repository.NewUserRepository(db),
		repository.NewRefreshTokenRepository(db), progression, achievements)
}

func register(t *testing.T, svc *AuthService, username string) *AuthResult {
	t.Helper()
	result, err := svc.Register(&RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	return result
}

func TestRegisterIssuesTokensAndStreak(t *testing.T) {
	svc := newAuthService(t)

	result := register(t, svc, "newbie")

	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	require.NotNil(t, result.Streak)
	assert.Equal(t, 1, result.Streak.Streak)
	assert.Equal(t, model.Student, result.User.Role)

	// first_login 成就及其奖励
	var count int64
	require.NoError(t, svc.DB.Model(&model.UserAchievement{}).
		Where("user_id = ?", result.User.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 10, result.User.XP)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	register(t, svc, "original")

	_, err := svc.Register(&RegisterRequest{
		Username: "different",
		Email:    "original@example.com",
		Password: "hunter22",
	})
	assert.ErrorIs(t, err, util.ErrUserExists)
}

func TestLoginSuccess(t *testing.T) {
	svc := newAuthService(t)
	register(t, svc, "logmein")

	result, err := svc.Login(&LoginRequest{
		Email:    "logmein@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	// 同日二次登录连胜不变
	assert.Equal(t, 1, result.Streak.Streak)
	assert.False(t, result.Streak.StreakIncreased)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(t)
	reg := register(t, svc, "wrongpass")

	_, err := svc.Login(&LoginRequest{
		Email:    "wrongpass@example.com",
		Password: "not-the-password",
	})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	var fresh model.User
	require.NoError(t, svc.DB.First(&fresh, reg.User.ID).Error)
	assert.Equal(t, 1, fresh.FailedLoginAttempts)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Login(&LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever1",
	})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	svc := newAuthService(t)
	reg := register(t, svc, "locked")

	for i := 0; i < maxFailedLogins; i++ {
		_, err := svc.Login(&LoginRequest{
			Email:    "locked@example.com",
			Password: "bad-password",
		})
		assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	}

	// 第 6 次即便密码正确也被锁挡住
	_, err := svc.Login(&LoginRequest{
		Email:    "locked@example.com",
		Password: "hunter22",
	})
	assert.ErrorIs(t, err, util.ErrAccountLocked)

	var fresh model.User
	require.NoError(t, svc.DB.First(&fresh, reg.User.ID).Error)
	require.NotNil(t, fresh.LockedUntil)
	assert.True(t, fresh.LockedUntil.After(time.Now()))
}

func TestLoginLockExpiresAndResets(t *testing.T) {
	svc := newAuthService(t)
	reg := register(t, svc, "unlocked")

	past := time.Now().Add(-time.Minute)
	require.NoError(t, svc.DB.Model(&model.User{}).Where("id = ?", reg.User.ID).
		Updates(map[string]interface{}{
			"failed_login_attempts": maxFailedLogins,
			"locked_until":          past,
		}).Error)

	result, err := svc.Login(&LoginRequest{
		Email:    "unlocked@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Tokens.AccessToken)

	var fresh model.User
	require.NoError(t, svc.DB.First(&fresh, reg.User.ID).Error)
	assert.Equal(t, 0, fresh.FailedLoginAttempts)
	assert.Nil(t, fresh.LockedUntil)
}

func TestRefreshRotation(t *testing.T) {
	svc := newAuthService(t)
	reg := register(t, svc, "rotator")

	pair, err := svc.Refresh(reg.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEqual(t, reg.Tokens.RefreshToken, pair.RefreshToken)

	// 旧令牌换发后立即失效
	_, err = svc.Refresh(reg.Tokens.RefreshToken)
	assert.ErrorIs(t, err, util.ErrInvalidRefresh)

	// 新令牌可以继续用
	_, err = svc.Refresh(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshGarbageToken(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Refresh("not-a-jwt")
	assert.ErrorIs(t, err, util.ErrInvalidRefresh)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc := newAuthService(t)
	reg := register(t, svc, "leaver")

	require.NoError(t, svc.Logout(reg.Tokens.RefreshToken))

	_, err := svc.Refresh(reg.Tokens.RefreshToken)
	assert.ErrorIs(t, err, util.ErrInvalidRefresh)
}

func TestChangePasswordRevokesAllSessions(t *testing.T) {
	svc := newAuthService(t)
	reg := register(t, svc, "rotatepw")

	require.NoError(t, svc.ChangePassword(reg.User.ID, "hunter22", "hunter33"))

	_, err := svc.Refresh(reg.Tokens.RefreshToken)
	assert.ErrorIs(t, err, util.ErrInvalidRefresh)

	_, err = svc.Login(&LoginRequest{Email: "rotatepw@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	result, err := svc.Login(&LoginRequest{Email: "rotatepw@example.com", Password: "hunter33"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Tokens.AccessToken)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	svc := newAuthService(t)
	reg := register(t, svc, "badcurrent")

	err := svc.ChangePassword(reg.User.ID, "wrong", "hunter33")
	require.Error(t, err)

	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.Code)
}
