package model

import "time"

// RefreshToken 持久化的刷新令牌，登出或轮换时删除
type RefreshToken struct {
	BaseModel
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Token     string    `gorm:"size:512;uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expiresAt"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
