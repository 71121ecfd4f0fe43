package repository

import (
	"time"

	"educonnect_backend/internal/model"

	"gorm.io/gorm"
)

type RefreshTokenRepository struct {
	DB *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{DB: db}
}

func (r *RefreshTokenRepository) Create(token *model.RefreshToken) error {
	return r.DB.Create(token).Error
}

// FindValid 查找未过期的令牌记录
func (r *RefreshTokenRepository) FindValid(token string) (*model.RefreshToken, error) {
	var rt model.RefreshToken
	err := r.DB.Where("token = ? AND expires_at > ?", token, time.Now()).First(&rt).Error
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *RefreshTokenRepository) DeleteByToken(token string) error {
	return r.DB.Unscoped().Where("token = ?", token).Delete(&model.RefreshToken{}).Error
}

func (r *RefreshTokenRepository) DeleteByUserID(userID uint) error {
	return r.DB.Unscoped().Where("user_id = ?", userID).Delete(&model.RefreshToken{}).Error
}

// DeleteExpired 清理过期令牌
func (r *RefreshTokenRepository) DeleteExpired() error {
	return r.DB.Unscoped().Where("expires_at <= ?", time.Now()).Delete(&model.RefreshToken{}).Error
}
