package database

import (
	"fmt"
	"log"

	"educonnect_backend/internal/config"
	"educonnect_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate 建表并在成就目录为空时写入默认目录
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Subject{},
		&model.Chapter{},
		&model.Lesson{},
		&model.LessonCompletion{},
		&model.UserSubjectProgress{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.QuizAttempt{},
		&model.Exercise{},
		&model.ExerciseQuestion{},
		&model.ExerciseAttempt{},
		&model.Achievement{},
		&model.UserAchievement{},
		&model.ActivityHistory{},
		&model.LeaderboardCache{},
	)
	if err != nil {
		return err
	}

	seedAchievements(db)
	return nil
}

// 默认成就目录
func seedAchievements(db *gorm.DB) {
	var count int64
	db.Model(&model.Achievement{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.Achievement{
		{Key: "first_login", Title: "Welcome aboard", Description: "Create your account", Icon: "🎉", Category: "milestone", Rarity: "common", RequirementType: model.ReqFirstLogin, RequirementValue: 1, XPBonus: 10},
		{Key: "first_lesson", Title: "First steps", Description: "Complete your first lesson", Icon: "📖", Category: "lessons", Rarity: "common", RequirementType: model.ReqFirstLesson, RequirementValue: 1, XPBonus: 10},
		{Key: "first_quiz", Title: "Quiz rookie", Description: "Finish your first quiz", Icon: "❓", Category: "quizzes", Rarity: "common", RequirementType: model.ReqFirstQuiz, RequirementValue: 1, XPBonus: 10},
		{Key: "first_exercise", Title: "Warming up", Description: "Finish your first exercise", Icon: "✏️", Category: "exercises", Rarity: "common", RequirementType: model.ReqFirstExercise, RequirementValue: 1, XPBonus: 10},
		{Key: "lesson_5", Title: "Bookworm", Description: "Complete 5 lessons", Icon: "📚", Category: "lessons", Rarity: "common", RequirementType: model.ReqLessonCount, RequirementValue: 5, XPBonus: 25},
		{Key: "lesson_25", Title: "Scholar", Description: "Complete 25 lessons", Icon: "🎓", Category: "lessons", Rarity: "rare", RequirementType: model.ReqLessonCount, RequirementValue: 25, XPBonus: 100},
		{Key: "quiz_10", Title: "Quiz addict", Description: "Attempt 10 quizzes", Icon: "🧠", Category: "quizzes", Rarity: "rare", RequirementType: model.ReqQuizCount, RequirementValue: 10, XPBonus: 50},
		{Key: "exercise_10", Title: "Practice makes perfect", Description: "Attempt 10 exercises", Icon: "💪", Category: "exercises", Rarity: "rare", RequirementType: model.ReqExerciseCount, RequirementValue: 10, XPBonus: 50},
		{Key: "perfect_quiz", Title: "Perfectionist", Description: "Score 100% on a quiz", Icon: "💯", Category: "quizzes", Rarity: "rare", RequirementType: model.ReqPerfectQuiz, RequirementValue: 1, XPBonus: 30},
		{Key: "streak_3", Title: "On a roll", Description: "Log in 3 days in a row", Icon: "🔥", Category: "streak", Rarity: "common", RequirementType: model.ReqStreak, RequirementValue: 3, XPBonus: 15},
		{Key: "streak_7", Title: "Week warrior", Description: "Log in 7 days in a row", Icon: "⚡", Category: "streak", Rarity: "rare", RequirementType: model.ReqStreak, RequirementValue: 7, XPBonus: 50},
		{Key: "streak_30", Title: "Unstoppable", Description: "Log in 30 days in a row", Icon: "🏆", Category: "streak", Rarity: "legendary", RequirementType: model.ReqStreak, RequirementValue: 30, XPBonus: 200},
		{Key: "level_5", Title: "Silver league", Description: "Reach level 5", Icon: "🥈", Category: "progression", Rarity: "common", RequirementType: model.ReqLevel, RequirementValue: 5, XPBonus: 25},
		{Key: "level_10", Title: "Gold league", Description: "Reach level 10", Icon: "🥇", Category: "progression", Rarity: "rare", RequirementType: model.ReqLevel, RequirementValue: 10, XPBonus: 75},
		{Key: "level_15", Title: "Diamond league", Description: "Reach level 15", Icon: "💎", Category: "progression", Rarity: "legendary", RequirementType: model.ReqLevel, RequirementValue: 15, XPBonus: 150},
		{Key: "xp_1000", Title: "Point collector", Description: "Earn 1000 XP in total", Icon: "⭐", Category: "progression", Rarity: "rare", RequirementType: model.ReqXP, RequirementValue: 1000, XPBonus: 100},
	}

	for _, a := range defaults {
		a.IsActive = true
		db.Create(&a)
	}
}
