package service

import (
	"errors"
	"time"

	"educonnect_backend/internal/model"
	"educonnect_backend/internal/util"
	"educonnect_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 联赛档位，等级 15/10/5 为分界（全站唯一的映射表）
const (
	LeagueBronze  = "Bronze"
	LeagueSilver  = "Silver"
	LeagueGold    = "Gold"
	LeagueDiamond = "Diamond"
)

// XPForLevel 升到 level+1 所需经验，L 级门槛为 L*100
func XPForLevel(level int) int {
	return level * 100
}

func LeagueForLevel(level int) string {
	switch {
	case level >= 15:
		return LeagueDiamond
	case level >= 10:
		return LeagueGold
	case level >= 5:
		return LeagueSilver
	default:
		return LeagueBronze
	}
}

// XPResult 一次 XP 结算的结果
type XPResult struct {
	XPAdded       int    `json:"xpAdded"`
	NewXP         int    `json:"newXp"`
	NewLevel      int    `json:"newLevel"`
	LeveledUp     bool   `json:"leveledUp"`
	LevelsGained  int    `json:"levelsGained"`
	XPToNextLevel int    `json:"xpToNextLevel"`
	League        string `json:"league"`
}

// StreakResult 一次连胜结算的结果
type StreakResult struct {
	Streak          int  `json:"streak"`
	StreakIncreased bool `json:"streakIncreased"`
}

// ProgressionService XP/等级/连胜的进度引擎
type ProgressionService struct {
	DB           *gorm.DB
	Achievements *AchievementService
}

func NewProgressionService(db *gorm.DB, achievements *AchievementService) *ProgressionService {
	return &ProgressionService{
		DB:           db,
		Achievements: achievements,
	}
}

// applyXP 在事务内结算 XP：经验条按当前等级门槛滚动清零，
// 一次大额奖励可以连升多级。写回用 (xp, level) 条件匹配做
// 乐观并发控制，防止并发加 XP 互相覆盖。
func applyXP(tx *gorm.DB, userID uint, amount int) (*XPResult, error) {
	for attempt := 0; attempt < 3; attempt++ {
		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrUserNotFound
			}
			return nil, err
		}

		newXP := user.XP + amount
		newLevel := user.Level
		for newXP >= XPForLevel(newLevel+1) {
			newXP -= XPForLevel(newLevel + 1)
			newLevel++
		}

		res := tx.Model(&model.User{}).
			Where("id = ? AND xp = ? AND level = ?", userID, user.XP, user.Level).
			Updates(map[string]interface{}{"xp": newXP, "level": newLevel})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			// 并发修改了同一行，重读后重试
			continue
		}

		return &XPResult{
			XPAdded:       amount,
			NewXP:         newXP,
			NewLevel:      newLevel,
			LeveledUp:     newLevel > user.Level,
			LevelsGained:  newLevel - user.Level,
			XPToNextLevel: XPForLevel(newLevel + 1),
			League:        LeagueForLevel(newLevel),
		}, nil
	}

	return nil, errors.New("xp update conflicted repeatedly")
}

// AddXPTx 在调用方事务内结算 XP，升级时同步触发成就判定，
// 成就解锁和等级变更一起提交。
func (s *ProgressionService) AddXPTx(tx *gorm.DB, userID uint, amount int) (*XPResult, []model.Achievement, error) {
	result, err := applyXP(tx, userID, amount)
	if err != nil {
		return nil, nil, err
	}

	var unlocked []model.Achievement
	if result.LeveledUp {
		unlocked, err = s.Achievements.CheckAndUnlockTx(tx, userID)
		if err != nil {
			// 成就判定失败不回滚 XP 结算
			logger.Log.Warn("achievement check failed after level up",
				zap.Uint("user_id", userID), zap.Error(err))
			unlocked = nil
		}
	}

	return result, unlocked, nil
}

// AddXP 独立事务版本
func (s *ProgressionService) AddXP(userID uint, amount int) (*XPResult, []model.Achievement, error) {
	var result *XPResult
	var unlocked []model.Achievement

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		result, unlocked, err = s.AddXPTx(tx, userID, amount)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return result, unlocked, nil
}

// UpdateStreak 按日历日结算连胜：
// 首次登录记 1；隔 1 天 +1；隔 2 天以上重置为 1；同日不变。
// 无论走哪个分支都会把 last_login_date 推到今天。
func (s *ProgressionService) UpdateStreak(userID uint) (*StreakResult, error) {
	var result *StreakResult

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrUserNotFound
			}
			return err
		}

		today := truncateToDay(time.Now())
		newStreak := user.Streak
		increased := false

		if user.LastLoginDate == nil {
			newStreak = 1
			increased = true
		} else {
			daysDiff := int(today.Sub(truncateToDay(*user.LastLoginDate)).Hours() / 24)
			switch {
			case daysDiff == 1:
				newStreak++
				increased = true
			case daysDiff > 1:
				newStreak = 1
			}
			// daysDiff == 0 同一天，连胜不变
		}

		if err := tx.Model(&model.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"streak":          newStreak,
				"last_login_date": today,
			}).Error; err != nil {
			return err
		}

		if increased {
			if _, err := s.Achievements.CheckAndUnlockTx(tx, userID); err != nil {
				logger.Log.Warn("achievement check failed after streak update",
					zap.Uint("user_id", userID), zap.Error(err))
			}
		}

		result = &StreakResult{Streak: newStreak, StreakIncreased: increased}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
