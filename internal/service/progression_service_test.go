package service

import (
	"testing"
	"time"

	"educonnect_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeagueForLevel(t *testing.T) {
	assert.Equal(t, LeagueBronze, LeagueForLevel(1))
	assert.Equal(t, LeagueBronze, LeagueForLevel(4))
	assert.Equal(t, LeagueSilver, LeagueForLevel(5))
	assert.Equal(t, LeagueSilver, LeagueForLevel(9))
	assert.Equal(t, LeagueGold, LeagueForLevel(10))
	assert.Equal(t, LeagueGold, LeagueForLevel(14))
	assert.Equal(t, LeagueDiamond, LeagueForLevel(15))
	assert.Equal(t, LeagueDiamond, LeagueForLevel(42))
}

func TestAddXPNoLevelUp(t *testing.T) {
	db, progression, _ := newTestStack(t)
	user := createTestUser(t, db, "nolevelup")

	result, unlocked, err := progression.AddXP(user.ID, 150)
	require.NoError(t, err)

	assert.Equal(t, 150, result.NewXP)
	assert.Equal(t, 1, result.NewLevel)
	assert.False(t, result.LeveledUp)
	assert.Equal(t, 200, result.XPToNextLevel)
	assert.Equal(t, LeagueBronze, result.League)
	assert.Empty(t, unlocked)

	var fresh model.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.Equal(t, 150, fresh.XP)
	assert.Equal(t, 1, fresh.Level)
}

func TestAddXPRollover(t *testing.T) {
	db, progression, _ := newTestStack(t)
	user := createTestUser(t, db, "rollover")

	// 升到 2 级需要 200，余下 50 留在经验条里
	result, _, err := progression.AddXP(user.ID, 250)
	require.NoError(t, err)

	assert.Equal(t, 50, result.NewXP)
	assert.Equal(t, 2, result.NewLevel)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, 1, result.LevelsGained)
	assert.Equal(t, 300, result.XPToNextLevel)
}

func TestAddXPMultiLevelRollover(t *testing.T) {
	db, progression, _ := newTestStack(t)
	user := createTestUser(t, db, "multilevel")

	// 200 + 300 + 400 = 900 升三级，余 100
	result, _, err := progression.AddXP(user.ID, 1000)
	require.NoError(t, err)

	assert.Equal(t, 4, result.NewLevel)
	assert.Equal(t, 100, result.NewXP)
	assert.Equal(t, 3, result.LevelsGained)
}

func TestAddXPLevelAchievement(t *testing.T) {
	db, progression, _ := newTestStack(t)
	user := createTestUser(t, db, "levelup5")
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{"level": 4, "xp": 0}).Error)

	// 从 4 级升到 5 级应解锁 level_5 并发放奖励
	result, unlocked, err := progression.AddXP(user.ID, 500)
	require.NoError(t, err)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, 5, result.NewLevel)

	keys := make([]string, 0, len(unlocked))
	for _, a := range unlocked {
		keys = append(keys, a.Key)
	}
	assert.Contains(t, keys, "level_5")

	var fresh model.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	// 500 升 5 级剩 0，再加 level_5 的 25 奖励
	assert.Equal(t, 25, fresh.XP)
	assert.Equal(t, 5, fresh.Level)
}

func TestAddXPUserNotFound(t *testing.T) {
	_, progression, _ := newTestStack(t)

	_, _, err := progression.AddXP(9999, 10)
	assert.Error(t, err)
}

func TestUpdateStreakFirstLogin(t *testing.T) {
	db, progression, _ := newTestStack(t)
	user := createTestUser(t, db, "firststreak")

	result, err := progression.UpdateStreak(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Streak)
	assert.True(t, result.StreakIncreased)

	var fresh model.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	require.NotNil(t, fresh.LastLoginDate)
	assert.Equal(t, time.Now().Day(), fresh.LastLoginDate.Day())
}

func TestUpdateStreakConsecutiveDay(t *testing.T) {
	db, progression, _ := newTestStack(t)
	user := createTestUser(t, db, "consecutive")
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"streak":          4,
		"last_login_date": daysAgo(1),
	}).Error)

	result, err := progression.UpdateStreak(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Streak)
	assert.True(t, result.StreakIncreased)
}

func TestUpdateStreakGapResets(t *testing.T) {
	db, progression, _ := newTestStack(t)
	user := createTestUser(t, db, "gapped")
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"streak":          12,
		"last_login_date": daysAgo(3),
	}).Error)

	result, err := progression.UpdateStreak(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Streak)
	assert.False(t, result.StreakIncreased)
}

func TestUpdateStreakSameDayNoChange(t *testing.T) {
	db, progression, _ := newTestStack(t)
	user := createTestUser(t, db, "sameday")

	_, err := progression.UpdateStreak(user.ID)
	require.NoError(t, err)

	result, err := progression.UpdateStreak(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Streak)
	assert.False(t, result.StreakIncreased)
}

func TestUpdateStreakAchievement(t *testing.T) {
	db, progression, _ := newTestStack(t)
	user := createTestUser(t, db, "streak3")
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"streak":          2,
		"last_login_date": daysAgo(1),
	}).Error)

	result, err := progression.UpdateStreak(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Streak)

	var count int64
	require.NoError(t, db.Model(&model.UserAchievement{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "streak_3 should be unlocked")
}
