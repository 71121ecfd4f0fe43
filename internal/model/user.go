package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Username string   `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email    string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Avatar   string   `gorm:"size:255;default:'👤'" json:"avatar"`
	Role     UserRole `gorm:"size:20;default:'student'" json:"role"`

	// 游戏化进度字段
	XP     int `gorm:"default:0" json:"xp"`    // 当前等级内的经验值（升级时取模滚动）
	Level  int `gorm:"default:1" json:"level"` // 当前等级，仅由进度引擎推进
	Streak int `gorm:"default:0" json:"streak"`

	LastLoginDate  *time.Time `json:"lastLoginDate"`
	TotalStudyTime int        `gorm:"default:0" json:"totalStudyTime"` // 累计学习时长（秒）

	// 登录保护
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}
