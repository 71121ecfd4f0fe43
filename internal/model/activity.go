package model

// 活动类型
const (
	ActivityLesson      = "lesson"
	ActivityQuiz        = "quiz"
	ActivityExercise    = "exercise"
	ActivityAchievement = "achievement"
)

// ActivityHistory 只追加的活动流水，每次 XP 奖励恰好一条
type ActivityHistory struct {
	BaseModel
	UserID        uint           `gorm:"index;not null" json:"userId"`
	ActivityType  string         `gorm:"size:20;index;not null" json:"activityType"`
	ActivityTitle string         `gorm:"size:200;not null" json:"activityTitle"`
	XPEarned      int            `gorm:"default:0" json:"xpEarned"`
	Metadata      map[string]any `gorm:"serializer:json" json:"metadata"`
}

func (ActivityHistory) TableName() string {
	return "activity_history"
}
