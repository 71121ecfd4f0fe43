package repository

import (
	"educonnect_backend/internal/model"

	"gorm.io/gorm"
)

type ExerciseRepository struct {
	DB *gorm.DB
}

func NewExerciseRepository(db *gorm.DB) *ExerciseRepository {
	return &ExerciseRepository{DB: db}
}

type ExerciseSummary struct {
	model.Exercise
	SubjectName   string `json:"subjectName"`
	SubjectEmoji  string `json:"subjectEmoji"`
	QuestionCount int64  `json:"questionCount"`
	AttemptCount  int64  `json:"attemptCount"`
}

func (r *ExerciseRepository) List(subjectID uint, difficulty string, userID uint) ([]ExerciseSummary, error) {
	query := r.DB.Model(&model.Exercise{}).
		Select(`exercises.*, subjects.name AS subject_name, subjects.emoji AS subject_emoji,
			(SELECT COUNT(*) FROM exercise_questions WHERE exercise_questions.exercise_id = exercises.id) AS question_count`).
		Joins("JOIN subjects ON subjects.id = exercises.subject_id")

	if userID != 0 {
		query = r.DB.Model(&model.Exercise{}).
			Select(`exercises.*, subjects.name AS subject_name, subjects.emoji AS subject_emoji,
				(SELECT COUNT(*) FROM exercise_questions WHERE exercise_questions.exercise_id = exercises.id) AS question_count,
				(SELECT COUNT(*) FROM exercise_attempts WHERE exercise_attempts.exercise_id = exercises.id AND exercise_attempts.user_id = ?) AS attempt_count`, userID).
			Joins("JOIN subjects ON subjects.id = exercises.subject_id")
	}

	if subjectID != 0 {
		query = query.Where("exercises.subject_id = ?", subjectID)
	}
	if difficulty != "" {
		query = query.Where("exercises.difficulty = ?", difficulty)
	}

	var exercises []ExerciseSummary
	err := query.Order("exercises.created_at DESC").Find(&exercises).Error
	return exercises, err
}

func (r *ExerciseRepository) FindByID(id uint) (*model.Exercise, error) {
	var exercise model.Exercise
	err := r.DB.First(&exercise, id).Error
	return &exercise, err
}

func (r *ExerciseRepository) QuestionsByExerciseID(exerciseID uint) ([]model.ExerciseQuestion, error) {
	var questions []model.ExerciseQuestion
	err := r.DB.Where("exercise_id = ?", exerciseID).Order("order_index ASC").Find(&questions).Error
	return questions, err
}

type ExerciseAttemptHistory struct {
	model.ExerciseAttempt
	Title       string `json:"title"`
	Difficulty  string `json:"difficulty"`
	Description string `json:"description"`
}

func (r *ExerciseRepository) AttemptsByUser(userID uint, exerciseID uint) ([]ExerciseAttemptHistory, error) {
	query := r.DB.Model(&model.ExerciseAttempt{}).
		Select("exercise_attempts.*, exercises.title, exercises.difficulty, exercises.description").
		Joins("JOIN exercises ON exercises.id = exercise_attempts.exercise_id").
		Where("exercise_attempts.user_id = ?", userID)

	if exerciseID != 0 {
		query = query.Where("exercise_attempts.exercise_id = ?", exerciseID)
	}

	var attempts []ExerciseAttemptHistory
	err := query.Order("exercise_attempts.created_at DESC").Find(&attempts).Error
	return attempts, err
}
