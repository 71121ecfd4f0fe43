package model

import "time"

// 成就条件类型
const (
	ReqLessonCount   = "lesson_count"
	ReqQuizCount     = "quiz_count"
	ReqExerciseCount = "exercise_count"
	ReqPerfectQuiz   = "perfect_quiz"
	ReqStreak        = "streak"
	ReqXP            = "xp"
	ReqLevel         = "level"
	ReqFirstLogin    = "first_login"
	ReqFirstLesson   = "first_lesson"
	ReqFirstQuiz     = "first_quiz"
	ReqFirstExercise = "first_exercise"
)

// Achievement 成就定义，静态目录数据
// swagger:model Achievement
type Achievement struct {
	BaseModel
	Key              string `gorm:"size:50;uniqueIndex;not null" json:"key"`
	Title            string `gorm:"size:100;not null" json:"title"`
	Description      string `gorm:"size:500" json:"description"`
	Icon             string `gorm:"size:10" json:"icon"`
	Category         string `gorm:"size:50" json:"category"`
	Rarity           string `gorm:"size:20;default:'common'" json:"rarity"`
	RequirementType  string `gorm:"size:30;not null" json:"requirementType"`
	RequirementValue int    `gorm:"default:1" json:"requirementValue"`
	XPBonus          int    `gorm:"default:0" json:"xpBonus"`
	IsActive         bool   `gorm:"default:true" json:"isActive"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement 解锁记录，(user, achievement) 唯一
type UserAchievement struct {
	BaseModel
	UserID        uint      `gorm:"uniqueIndex:idx_user_achievement;not null" json:"userId"`
	AchievementID uint      `gorm:"uniqueIndex:idx_user_achievement;not null" json:"achievementId"`
	UnlockedAt    time.Time `json:"unlockedAt"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
