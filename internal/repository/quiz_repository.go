package repository

import (
	"time"

	"educonnect_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// QuizSummary 列表项，附带学科信息与题目/作答次数
type QuizSummary struct {
	model.Quiz
	SubjectName   string `json:"subjectName"`
	SubjectEmoji  string `json:"subjectEmoji"`
	QuestionCount int64  `json:"questionCount"`
	AttemptCount  int64  `json:"attemptCount"`
}

// List 按学科/难度筛选。userID 为 0 时不统计个人作答次数。
// 条件用固定的语句分支拼接，全部参数绑定。
func (r *QuizRepository) List(subjectID uint, difficulty string, userID uint) ([]QuizSummary, error) {
	query := r.DB.Model(&model.Quiz{}).
		Select(`quizzes.*, subjects.name AS subject_name, subjects.emoji AS subject_emoji,
			(SELECT COUNT(*) FROM quiz_questions WHERE quiz_questions.quiz_id = quizzes.id) AS question_count`).
		Joins("JOIN subjects ON subjects.id = quizzes.subject_id")

	if userID != 0 {
		query = r.DB.Model(&model.Quiz{}).
			Select(`quizzes.*, subjects.name AS subject_name, subjects.emoji AS subject_emoji,
				(SELECT COUNT(*) FROM quiz_questions WHERE quiz_questions.quiz_id = quizzes.id) AS question_count,
				(SELECT COUNT(*) FROM quiz_attempts WHERE quiz_attempts.quiz_id = quizzes.id AND quiz_attempts.user_id = ?) AS attempt_count`, userID).
			Joins("JOIN subjects ON subjects.id = quizzes.subject_id")
	}

	if subjectID != 0 {
		query = query.Where("quizzes.subject_id = ?", subjectID)
	}
	if difficulty != "" {
		query = query.Where("quizzes.difficulty = ?", difficulty)
	}

	var quizzes []QuizSummary
	err := query.Order("quizzes.created_at DESC").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.First(&quiz, id).Error
	return &quiz, err
}

// QuestionsByQuizID 按顺序取题，含正确答案，仅供判分使用
func (r *QuizRepository) QuestionsByQuizID(quizID uint) ([]model.QuizQuestion, error) {
	var questions []model.QuizQuestion
	err := r.DB.Where("quiz_id = ?", quizID).Order("order_index ASC").Find(&questions).Error
	return questions, err
}

func (r *QuizRepository) CountAttempts(tx *gorm.DB, userID, quizID uint) (int64, error) {
	var count int64
	err := tx.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&count).Error
	return count, err
}

// AttemptHistory 带测验信息的历史记录
type AttemptHistory struct {
	model.QuizAttempt
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
	Emoji      string `json:"emoji"`
}

func (r *QuizRepository) AttemptsByUser(userID uint, quizID uint) ([]AttemptHistory, error) {
	query := r.DB.Model(&model.QuizAttempt{}).
		Select("quiz_attempts.*, quizzes.title, quizzes.difficulty, quizzes.emoji").
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Where("quiz_attempts.user_id = ?", userID)

	if quizID != 0 {
		query = query.Where("quiz_attempts.quiz_id = ?", quizID)
	}

	var attempts []AttemptHistory
	err := query.Order("quiz_attempts.created_at DESC").Find(&attempts).Error
	return attempts, err
}

// QuizRank 单个测验的排行项
type QuizRank struct {
	UserID     uint      `json:"userId"`
	Username   string    `json:"username"`
	Avatar     string    `json:"avatar"`
	Level      int       `json:"level"`
	Score      int       `json:"score"`
	Percentage float64   `json:"percentage"`
	TimeSpent  int       `json:"timeSpent"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (r *QuizRepository) Leaderboard(quizID uint, limit int) ([]QuizRank, error) {
	var ranks []QuizRank
	err := r.DB.Model(&model.QuizAttempt{}).
		Select(`quiz_attempts.user_id, users.username, users.avatar, users.level,
			quiz_attempts.score, quiz_attempts.percentage, quiz_attempts.time_spent, quiz_attempts.created_at`).
		Joins("JOIN users ON users.id = quiz_attempts.user_id").
		Where("quiz_attempts.quiz_id = ?", quizID).
		Order("quiz_attempts.percentage DESC, quiz_attempts.time_spent ASC").
		Limit(limit).
		Find(&ranks).Error
	return ranks, err
}
