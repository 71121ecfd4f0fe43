package service

import (
	"testing"
	"time"

	"educonnect_backend/internal/model"
	"educonnect_backend/internal/repository"
	"educonnect_backend/pkg/database"
	"educonnect_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

// newTestDB 内存 SQLite，限制单连接避免每个连接各持一份内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestStack(t *testing.T) (*gorm.DB, *ProgressionService, *AchievementService) {
	t.Helper()
	db := newTestDB(t)
	achievements := NewAchievementService(db, repository.NewAchievementRepository(db))
	progression := NewProgressionService(db, achievements)
	return db, progression, achievements
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "$2a$10$abcdefghijklmnopqrstuv",
		Level:    1,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestSubject(t *testing.T, db *gorm.DB, key string) *model.Subject {
	t.Helper()
	subject := &model.Subject{Key: key, Name: key, Emoji: "📘"}
	require.NoError(t, db.Create(subject).Error)
	return subject
}

func createTestLesson(t *testing.T, db *gorm.DB, subjectID uint, xpReward int) *model.Lesson {
	t.Helper()
	chapter := &model.Chapter{SubjectID: subjectID, Title: "Chapter"}
	require.NoError(t, db.Create(chapter).Error)
	lesson := &model.Lesson{ChapterID: chapter.ID, Title: "Lesson", XPReward: xpReward}
	require.NoError(t, db.Create(lesson).Error)
	return lesson
}

// createTestQuiz 建一份 n 题测验，正确答案全部为 0
func createTestQuiz(t *testing.T, db *gorm.DB, subjectID uint, baseReward, questions int) *model.Quiz {
	t.Helper()
	quiz := &model.Quiz{SubjectID: subjectID, Title: "Quiz", XPBaseReward: baseReward}
	require.NoError(t, db.Create(quiz).Error)
	for i := 0; i < questions; i++ {
		q := &model.QuizQuestion{
			QuizID:       quiz.ID,
			QuestionText: "q",
			OptionA:      "a", OptionB: "b", OptionC: "c", OptionD: "d",
			CorrectOption: 0,
			OrderIndex:    i,
		}
		require.NoError(t, db.Create(q).Error)
	}
	return quiz
}

func createTestExercise(t *testing.T, db *gorm.DB, subjectID uint, xpReward, questions int) *model.Exercise {
	t.Helper()
	exercise := &model.Exercise{SubjectID: subjectID, Title: "Exercise", XPReward: xpReward}
	require.NoError(t, db.Create(exercise).Error)
	for i := 0; i < questions; i++ {
		q := &model.ExerciseQuestion{
			ExerciseID:   exercise.ID,
			QuestionText: "q",
			OptionA:      "a", OptionB: "b", OptionC: "c", OptionD: "d",
			CorrectOption: 0,
			OrderIndex:    i,
		}
		require.NoError(t, db.Create(q).Error)
	}
	return exercise
}

func daysAgo(n int) *time.Time {
	d := time.Now().AddDate(0, 0, -n)
	return &d
}
