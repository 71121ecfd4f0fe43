package service

import (
	"errors"
	"math"
	"strings"

	"educonnect_backend/internal/model"
	"educonnect_backend/internal/repository"
	"educonnect_backend/internal/util"
	"educonnect_backend/pkg/logger"
	"educonnect_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuizSubmission 测验提交请求
type QuizSubmission struct {
	Answers   []int `json:"answers" binding:"required"`
	TimeSpent int   `json:"timeSpent"`
}

// QuestionResult 单题判分结果，提交后才回显正确答案与解析
type QuestionResult struct {
	QuestionID    uint   `json:"questionId"`
	UserAnswer    int    `json:"userAnswer"`
	CorrectAnswer int    `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
	Explanation   string `json:"explanation"`
}

// QuizResult 整卷判分结果
type QuizResult struct {
	AttemptID       uint                `json:"attemptId"`
	Score           int                 `json:"score"`
	TotalQuestions  int                 `json:"totalQuestions"`
	Percentage      float64             `json:"percentage"`
	IsFirstAttempt  bool                `json:"isFirstAttempt"`
	IsPerfect       bool                `json:"isPerfect"`
	XPEarned        int                 `json:"xpEarned"`
	Questions       []QuestionResult    `json:"questions"`
	Progression     *XPResult           `json:"progression,omitempty"`
	NewAchievements []model.Achievement `json:"newAchievements"`
}

// QuizService 测验列表与判分
type QuizService struct {
	DB          *gorm.DB
	Repo        *repository.QuizRepository
	Progression *ProgressionService
}

func NewQuizService(db *gorm.DB, repo *repository.QuizRepository, progression *ProgressionService) *QuizService {
	return &QuizService{DB: db, Repo: repo, Progression: progression}
}

func (s *QuizService) List(subjectID uint, difficulty string, userID uint) ([]repository.QuizSummary, error) {
	return s.Repo.List(subjectID, difficulty, userID)
}

// GetWithQuestions 返回测验和按序排列的题目，不含答案字段
func (s *QuizService) GetWithQuestions(id uint) (*model.Quiz, error) {
	quiz, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	questions, err := s.Repo.QuestionsByQuizID(id)
	if err != nil {
		return nil, err
	}
	quiz.Questions = questions
	return quiz, nil
}

// Submit 判分一次测验提交。判分、落库、XP 结算、成就判定在同
// 一事务内完成。只有首次提交发 XP：base + floor(pct/100*base)，
// 满分再加 10。并发的两个首次提交靠 attempt_number 唯一索引裁决，
// 输掉的一方按重复提交重算（0 XP）。
func (s *QuizService) Submit(userID, quizID uint, sub *QuizSubmission) (*QuizResult, error) {
	quiz, err := s.Repo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	questions, err := s.Repo.QuestionsByQuizID(quizID)
	if err != nil {
		return nil, err
	}
	if len(sub.Answers) != len(questions) {
		return nil, util.ErrAnswerCountMatch
	}

	score := 0
	results := make([]QuestionResult, 0, len(questions))
	for i, q := range questions {
		correct := sub.Answers[i] == q.CorrectOption
		if correct {
			score++
		}
		results = append(results, QuestionResult{
			QuestionID:    q.ID,
			UserAnswer:    sub.Answers[i],
			CorrectAnswer: q.CorrectOption,
			IsCorrect:     correct,
			Explanation:   q.Explanation,
		})
	}

	total := len(questions)
	percentage := 0.0
	if total > 0 {
		percentage = math.Round(float64(score)/float64(total)*10000) / 100
	}
	isPerfect := score == total && total > 0

	var result *QuizResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		prior, err := s.Repo.CountAttempts(tx, userID, quizID)
		if err != nil {
			return err
		}
		isFirst := prior == 0

		xpEarned := 0
		if isFirst {
			xpEarned = quizXP(quiz.XPBaseReward, percentage, isPerfect)
		}

		attempt := &model.QuizAttempt{
			UserID:         userID,
			QuizID:         quizID,
			AttemptNumber:  int(prior) + 1,
			Score:          score,
			TotalQuestions: total,
			Percentage:     percentage,
			XPEarned:       xpEarned,
			TimeSpent:      sub.TimeSpent,
			IsFirstAttempt: isFirst,
			Answers:        sub.Answers,
		}
		if err := tx.Create(attempt).Error; err != nil {
			if isDuplicateKey(err) && isFirst {
				// 并发首次提交撞上唯一索引，降级为第二次提交
				isFirst = false
				xpEarned = 0
				attempt.ID = 0
				attempt.AttemptNumber = 2
				attempt.XPEarned = 0
				attempt.IsFirstAttempt = false
				if err := tx.Create(attempt).Error; err != nil {
					return err
				}
			} else {
				return err
			}
		}

		result = &QuizResult{
			AttemptID:       attempt.ID,
			Score:           score,
			TotalQuestions:  total,
			Percentage:      percentage,
			IsFirstAttempt:  isFirst,
			IsPerfect:       isPerfect,
			XPEarned:        xpEarned,
			Questions:       results,
			NewAchievements: []model.Achievement{},
		}

		if xpEarned > 0 {
			if err := repository.Append(tx, userID, model.ActivityQuiz,
				"Completed quiz: "+quiz.Title, xpEarned,
				map[string]any{
					"quizId":     quizID,
					"score":      score,
					"percentage": percentage,
				}); err != nil {
				return err
			}
			progression, err := applyXP(tx, userID, xpEarned)
			if err != nil {
				return err
			}
			result.Progression = progression
		}

		// 不发 XP 也要跑成就判定，quiz_10 这类计数成就靠的是
		// 提交次数而不是奖励
		unlocked, err := s.Progression.Achievements.CheckAndUnlockTx(tx, userID)
		if err != nil {
			logger.Log.Warn("achievement check failed after quiz submit",
				zap.Uint("user_id", userID), zap.Error(err))
		} else if unlocked != nil {
			result.NewAchievements = unlocked
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.XPEarned > 0 {
		monitoring.XPAwarded.WithLabelValues(model.ActivityQuiz).Add(float64(result.XPEarned))
	}
	return result, nil
}

func (s *QuizService) Attempts(userID, quizID uint) ([]repository.AttemptHistory, error) {
	return s.Repo.AttemptsByUser(userID, quizID)
}

func (s *QuizService) Leaderboard(quizID uint, limit int) ([]repository.QuizRank, error) {
	if _, err := s.Repo.FindByID(quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return s.Repo.Leaderboard(quizID, limit)
}

// quizXP 首次提交的奖励公式：base + floor(pct/100*base)，满分 +10
func quizXP(base int, percentage float64, perfect bool) int {
	xp := base + int(math.Floor(percentage/100*float64(base)))
	if perfect {
		xp += 10
	}
	return xp
}

// isDuplicateKey 识别 MySQL 1062 与 SQLite UNIQUE 约束错误
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
