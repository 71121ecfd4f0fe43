package service

import (
	"testing"
	"time"

	"educonnect_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func completeLessons(t *testing.T, db *gorm.DB, userID uint, n int) {
	t.Helper()
	subject := createTestSubject(t, db, "achv")
	for i := 0; i < n; i++ {
		lesson := createTestLesson(t, db, subject.ID, 20)
		require.NoError(t, db.Create(&model.LessonCompletion{
			UserID:      userID,
			LessonID:    lesson.ID,
			CompletedAt: time.Now(),
		}).Error)
	}
}

func TestCheckAndUnlockLessonCount(t *testing.T) {
	db, _, achievements := newTestStack(t)
	user := createTestUser(t, db, "lessoncount")
	completeLessons(t, db, user.ID, 5)

	unlocked, err := achievements.CheckAndUnlock(user.ID)
	require.NoError(t, err)

	keys := make([]string, 0, len(unlocked))
	for _, a := range unlocked {
		keys = append(keys, a.Key)
	}
	assert.Contains(t, keys, "first_lesson")
	assert.Contains(t, keys, "lesson_5")
	assert.NotContains(t, keys, "lesson_25")
}

func TestCheckAndUnlockIdempotent(t *testing.T) {
	db, _, achievements := newTestStack(t)
	user := createTestUser(t, db, "idempotent")
	completeLessons(t, db, user.ID, 5)

	first, err := achievements.CheckAndUnlock(user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := achievements.CheckAndUnlock(user.ID)
	require.NoError(t, err)
	assert.Empty(t, second, "second pass with unchanged stats unlocks nothing")

	var count int64
	require.NoError(t, db.Model(&model.UserAchievement{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(len(first)), count)
}

func TestCheckAndUnlockAppliesBonus(t *testing.T) {
	db, _, achievements := newTestStack(t)
	user := createTestUser(t, db, "bonus")
	completeLessons(t, db, user.ID, 1)

	_, err := achievements.CheckAndUnlock(user.ID)
	require.NoError(t, err)

	var fresh model.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	// first_lesson 的 10 XP 奖励
	assert.Equal(t, 10, fresh.XP)

	var activities int64
	require.NoError(t, db.Model(&model.ActivityHistory{}).
		Where("user_id = ? AND activity_type = ?", user.ID, model.ActivityAchievement).
		Count(&activities).Error)
	assert.Equal(t, int64(1), activities)
}

func TestCheckAndUnlockSkipsUnknownRequirement(t *testing.T) {
	db, _, achievements := newTestStack(t)
	user := createTestUser(t, db, "unknownreq")

	require.NoError(t, db.Create(&model.Achievement{
		Key:              "mystery",
		Title:            "Mystery",
		RequirementType:  "mystery_rule",
		RequirementValue: 1,
		XPBonus:          999,
		IsActive:         true,
	}).Error)

	unlocked, err := achievements.CheckAndUnlock(user.ID)
	require.NoError(t, err, "unknown rule types are skipped, not fatal")
	for _, a := range unlocked {
		assert.NotEqual(t, "mystery", a.Key)
	}
}

func TestCheckAndUnlockInactiveExcluded(t *testing.T) {
	db, _, achievements := newTestStack(t)
	user := createTestUser(t, db, "inactive")
	require.NoError(t, db.Model(&model.Achievement{}).
		Where("`key` = ?", "first_lesson").
		Update("is_active", false).Error)
	completeLessons(t, db, user.ID, 1)

	unlocked, err := achievements.CheckAndUnlock(user.ID)
	require.NoError(t, err)
	for _, a := range unlocked {
		assert.NotEqual(t, "first_lesson", a.Key)
	}
}

func TestUnlockByKeyIdempotent(t *testing.T) {
	db, _, achievements := newTestStack(t)
	user := createTestUser(t, db, "unlockbykey")

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return achievements.UnlockByKey(tx, user.ID, "first_login")
	}))
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return achievements.UnlockByKey(tx, user.ID, "first_login")
	}))

	var count int64
	require.NoError(t, db.Model(&model.UserAchievement{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var fresh model.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	// 奖励只发一次
	assert.Equal(t, 10, fresh.XP)
}

func TestUnlockByKeyMissingIsNoop(t *testing.T) {
	db, _, achievements := newTestStack(t)
	user := createTestUser(t, db, "missingkey")

	err := db.Transaction(func(tx *gorm.DB) error {
		return achievements.UnlockByKey(tx, user.ID, "does_not_exist")
	})
	assert.NoError(t, err)
}
