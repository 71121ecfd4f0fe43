package repository

import (
	"time"

	"educonnect_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

// FindActiveByKey 按 key 查启用成就
func FindActiveByKey(tx *gorm.DB, key string) (*model.Achievement, error) {
	var achievement model.Achievement
	err := tx.Where("`key` = ? AND is_active = ?", key, true).First(&achievement).Error
	return &achievement, err
}

// ActiveUnearned 用户尚未解锁的启用成就
func ActiveUnearned(tx *gorm.DB, userID uint) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := tx.Where("is_active = ? AND id NOT IN (?)",
		true,
		tx.Session(&gorm.Session{NewDB: true}).
			Model(&model.UserAchievement{}).
			Select("achievement_id").
			Where("user_id = ?", userID),
	).Find(&achievements).Error
	return achievements, err
}

// InsertUnlock 插入解锁记录。(user, achievement) 冲突时静默跳过，
// 返回是否真正新插入了一行。
func InsertUnlock(tx *gorm.DB, userID, achievementID uint) (bool, error) {
	ua := model.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    time.Now(),
	}
	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(&ua)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AchievementWithUnlock 目录项加解锁时间（未解锁时为空）
type AchievementWithUnlock struct {
	model.Achievement
	UnlockedAt *time.Time `json:"unlockedAt"`
}

// ListWithUnlocks 全部启用成就，标注该用户的解锁时间
func (r *AchievementRepository) ListWithUnlocks(userID uint) ([]AchievementWithUnlock, error) {
	var rows []AchievementWithUnlock
	err := r.DB.Model(&model.Achievement{}).
		Select("achievements.*, user_achievements.unlocked_at").
		Joins("LEFT JOIN user_achievements ON user_achievements.achievement_id = achievements.id AND user_achievements.user_id = ?", userID).
		Where("achievements.is_active = ?", true).
		Order("achievements.created_at ASC").
		Find(&rows).Error
	return rows, err
}

// UserStats 成就判定用的聚合统计
type UserStats struct {
	UserID             uint
	XP                 int
	Level              int
	Streak             int
	TotalXP            int64
	LessonsCompleted   int64
	QuizzesAttempted   int64
	ExercisesAttempted int64
	PerfectQuizzes     int64
}

// LoadUserStats 一次事务内收集用户的全部聚合指标
func LoadUserStats(tx *gorm.DB, userID uint) (*UserStats, error) {
	var user model.User
	if err := tx.First(&user, userID).Error; err != nil {
		return nil, err
	}

	stats := &UserStats{
		UserID: user.ID,
		XP:     user.XP,
		Level:  user.Level,
		Streak: user.Streak,
	}

	if err := tx.Model(&model.LessonCompletion{}).
		Where("user_id = ?", userID).Count(&stats.LessonsCompleted).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&model.QuizAttempt{}).
		Where("user_id = ?", userID).Count(&stats.QuizzesAttempted).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&model.ExerciseAttempt{}).
		Where("user_id = ?", userID).Count(&stats.ExercisesAttempted).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND percentage = 100", userID).Count(&stats.PerfectQuizzes).Error; err != nil {
		return nil, err
	}
	// 总 XP 从活动流水汇总，用户表里的 xp 是等级内滚动值
	if err := tx.Model(&model.ActivityHistory{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(xp_earned), 0)").
		Scan(&stats.TotalXP).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
