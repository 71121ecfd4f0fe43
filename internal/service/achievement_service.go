package service

import (
	"time"

	"educonnect_backend/internal/model"
	"educonnect_backend/internal/repository"
	"educonnect_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AchievementService 成就判定引擎。判定是尽力而为的：
// 单条规则出错只跳过该条，绝不让成就问题拖垮主业务流程。
type AchievementService struct {
	DB   *gorm.DB
	Repo *repository.AchievementRepository
}

func NewAchievementService(db *gorm.DB, repo *repository.AchievementRepository) *AchievementService {
	return &AchievementService{DB: db, Repo: repo}
}

// CheckAndUnlockTx 在调用方事务内评估所有未解锁的启用成就，
// 返回本次新解锁的列表。统计数据在入口处加载一次，本轮内
// 的 XP 奖励不会级联触发重新评估。
func (s *AchievementService) CheckAndUnlockTx(tx *gorm.DB, userID uint) ([]model.Achievement, error) {
	candidates, err := repository.ActiveUnearned(tx, userID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	stats, err := repository.LoadUserStats(tx, userID)
	if err != nil {
		return nil, err
	}

	var unlocked []model.Achievement
	for _, a := range candidates {
		satisfied, ok := evaluate(&a, stats)
		if !ok {
			logger.Log.Warn("skipping achievement with unknown requirement type",
				zap.String("key", a.Key), zap.String("type", a.RequirementType))
			continue
		}
		if !satisfied {
			continue
		}

		if err := s.unlockTx(tx, userID, &a); err != nil {
			// 单条解锁失败只记录，继续评估剩余成就
			logger.Log.Warn("achievement unlock failed",
				zap.Uint("user_id", userID), zap.String("key", a.Key), zap.Error(err))
			continue
		}
		unlocked = append(unlocked, a)
	}

	return unlocked, nil
}

// CheckAndUnlock 独立事务版本
func (s *AchievementService) CheckAndUnlock(userID uint) ([]model.Achievement, error) {
	var unlocked []model.Achievement
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		unlocked, err = s.CheckAndUnlockTx(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return unlocked, nil
}

// UnlockByKey 按成就 key 直接解锁，用于 first_login 这类
// 事件型成就。成就不存在或已解锁都安静返回。
func (s *AchievementService) UnlockByKey(tx *gorm.DB, userID uint, key string) error {
	a, err := repository.FindActiveByKey(tx, key)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	return s.unlockTx(tx, userID, a)
}

// unlockTx 落解锁记录，发 XP 奖励，写活动流水。唯一索引保证
// 重复解锁是空操作，不会重复发奖励。
func (s *AchievementService) unlockTx(tx *gorm.DB, userID uint, a *model.Achievement) error {
	inserted, err := repository.InsertUnlock(tx, userID, a.ID)
	if err != nil {
		return err
	}
	if !inserted {
		return nil
	}

	if a.XPBonus > 0 {
		if _, err := applyXP(tx, userID, a.XPBonus); err != nil {
			return err
		}
	}

	return repository.Append(tx, userID, model.ActivityAchievement,
		"Achievement unlocked: "+a.Title, a.XPBonus,
		map[string]any{
			"achievementKey": a.Key,
			"icon":           a.Icon,
			"unlockedAt":     time.Now().Format(time.RFC3339),
		})
}

// evaluate 单条成就规则判定，第二个返回值表示条件类型是否可识别
func evaluate(a *model.Achievement, stats *repository.UserStats) (bool, bool) {
	v := int64(a.RequirementValue)
	switch a.RequirementType {
	case model.ReqLessonCount:
		return stats.LessonsCompleted >= v, true
	case model.ReqQuizCount:
		return stats.QuizzesAttempted >= v, true
	case model.ReqExerciseCount:
		return stats.ExercisesAttempted >= v, true
	case model.ReqPerfectQuiz:
		return stats.PerfectQuizzes >= v, true
	case model.ReqStreak:
		return int64(stats.Streak) >= v, true
	case model.ReqXP:
		return stats.TotalXP >= v, true
	case model.ReqLevel:
		return int64(stats.Level) >= v, true
	case model.ReqFirstLesson:
		return stats.LessonsCompleted >= 1, true
	case model.ReqFirstQuiz:
		return stats.QuizzesAttempted >= 1, true
	case model.ReqFirstExercise:
		return stats.ExercisesAttempted >= 1, true
	case model.ReqFirstLogin:
		// 登录时通过 UnlockByKey 直接解锁，这里恒不满足
		return false, true
	default:
		return false, false
	}
}
