package service

import (
	"errors"
	"math"

	"educonnect_backend/internal/model"
	"educonnect_backend/internal/repository"
	"educonnect_backend/internal/util"
	"educonnect_backend/pkg/logger"
	"educonnect_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ExerciseSubmission 练习提交请求
type ExerciseSubmission struct {
	Answers   []int `json:"answers" binding:"required"`
	TimeSpent int   `json:"timeSpent"`
}

// ExerciseResult 练习判分结果
type ExerciseResult struct {
	AttemptID       uint                `json:"attemptId"`
	Score           int                 `json:"score"`
	TotalQuestions  int                 `json:"totalQuestions"`
	Percentage      float64             `json:"percentage"`
	XPEarned        int                 `json:"xpEarned"`
	Questions       []QuestionResult    `json:"questions"`
	Progression     *XPResult           `json:"progression,omitempty"`
	NewAchievements []model.Achievement `json:"newAchievements"`
}

// ExerciseService 练习列表与判分。练习不限次数，每次提交都
// 按得分比例发 XP。
type ExerciseService struct {
	DB          *gorm.DB
	Repo        *repository.ExerciseRepository
	Progression *ProgressionService
}

func NewExerciseService(db *gorm.DB, repo *repository.ExerciseRepository, progression *ProgressionService) *ExerciseService {
	return &ExerciseService{DB: db, Repo: repo, Progression: progression}
}

func (s *ExerciseService) List(subjectID uint, difficulty string, userID uint) ([]repository.ExerciseSummary, error) {
	return s.Repo.List(subjectID, difficulty, userID)
}

func (s *ExerciseService) GetWithQuestions(id uint) (*model.Exercise, error) {
	exercise, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExerciseNotFound
		}
		return nil, err
	}
	questions, err := s.Repo.QuestionsByExerciseID(id)
	if err != nil {
		return nil, err
	}
	exercise.Questions = questions
	return exercise, nil
}

// Submit 判分一次练习提交，XP = floor(score/total * 奖励值)
func (s *ExerciseService) Submit(userID, exerciseID uint, sub *ExerciseSubmission) (*ExerciseResult, error) {
	exercise, err := s.Repo.FindByID(exerciseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExerciseNotFound
		}
		return nil, err
	}

	questions, err := s.Repo.QuestionsByExerciseID(exerciseID)
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
		})
	}

	total := len(questions)
	percentage := 0.0
	xpEarned := 0
	if total > 0 {
		percentage = math.Round(float64(score)/float64(total)*10000) / 100
		xpEarned = int(math.Floor(float64(score) / float64(total) * float64(exercise.XPReward)))
	}

	var result *ExerciseResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		attempt := &model.ExerciseAttempt{
			UserID:         userID,
			ExerciseID:     exerciseID,
			Score:          score,
			TotalQuestions: total,
			Percentage:     percentage,
			XPEarned:       xpEarned,
			TimeSpent:      sub.TimeSpent,
			Answers:        sub.Answers,
		}
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}

		result = &ExerciseResult{
			AttemptID:       attempt.ID,
			Score:           score,
			TotalQuestions:  total,
			Percentage:      percentage,
			XPEarned:        xpEarned,
			Questions:       results,
			NewAchievements: []model.Achievement{},
		}

		if xpEarned > 0 {
			if err := repository.Append(tx, userID, model.ActivityExercise,
				"Completed exercise: "+exercise.Title, xpEarned,
				map[string]any{
					"exerciseId": exerciseID,
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

		unlocked, err := s.Progression.Achievements.CheckAndUnlockTx(tx, userID)
		if err != nil {
			logger.Log.Warn("achievement check failed after exercise submit",
				zap.Uint("user_id", userID), zap.Error(err))
		} else if unlocked != nil {
			result.NewAchievements = unlocked
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if xpEarned > 0 {
		monitoring.XPAwarded.WithLabelValues(model.ActivityExercise).Add(float64(xpEarned))
	}
	return result, nil
}

func (s *ExerciseService) Attempts(userID, exerciseID uint) ([]repository.ExerciseAttemptHistory, error) {
	return s.Repo.AttemptsByUser(userID, exerciseID)
}
