package model

// LeaderboardCache 全站排行的物化缓存，管理端触发全量重建
type LeaderboardCache struct {
	BaseModel
	UserID uint   `gorm:"uniqueIndex;not null" json:"userId"`
	Rank   int    `gorm:"index;not null" json:"rank"`
	XP     int    `gorm:"not null" json:"xp"`
	Level  int    `gorm:"not null" json:"level"`
	League string `gorm:"size:20;not null" json:"league"`
}

func (LeaderboardCache) TableName() string {
	return "leaderboard_cache"
}
