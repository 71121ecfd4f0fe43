package service

import (
	"testing"

	"educonnect_backend/internal/model"
	"educonnect_backend/internal/repository"
	"educonnect_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExerciseService(t *testing.T) *ExerciseService {
	t.Helper()
	db, progression, _ := newTestStack(t)
	return NewExerciseService(db, repository.NewExerciseRepository(db), progression)
}

func TestSubmitExerciseProportionalXP(t *testing.T) {
	svc := newExerciseService(t)
	db := svc.DB
	user := createTestUser(t, db, "exmixed")
	subject := createTestSubject(t, db, "math")
	exercise := createTestExercise(t, db, subject.ID, 20, 3)

	// 2/3 正确：floor(2/3 * 20) = 13
	result, err := svc.Submit(user.ID, exercise.ID, &ExerciseSubmission{
		Answers: []int{0, 0, 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 13, result.XPEarned)
	assert.InDelta(t, 66.67, result.Percentage, 0.01)
}

func TestSubmitExerciseRepeatKeepsAwarding(t *testing.T) {
	svc := newExerciseService(t)
	db := svc.DB
	user := createTestUser(t, db, "exrepeat")
	subject := createTestSubject(t, db, "sci")
	exercise := createTestExercise(t, db, subject.ID, 20, 2)

	for i := 0; i < 3; i++ {
		result, err := svc.Submit(user.ID, exercise.ID, &ExerciseSubmission{
			Answers: []int{0, 0},
		})
		require.NoError(t, err)
		assert.Equal(t, 20, result.XPEarned, "every attempt pays full reward on full score")
	}

	var count int64
	require.NoError(t, db.Model(&model.ExerciseAttempt{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestSubmitExerciseZeroScore(t *testing.T) {
	svc := newExerciseService(t)
	db := svc.DB
	user := createTestUser(t, db, "exzero")
	subject := createTestSubject(t, db, "geo")
	exercise := createTestExercise(t, db, subject.ID, 20, 2)

	result, err := svc.Submit(user.ID, exercise.ID, &ExerciseSubmission{
		Answers: []int{1, 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.XPEarned)
	assert.Nil(t, result.Progression)

	// 零分提交仍计入成就统计
	keys := make([]string, 0, len(result.NewAchievements))
	for _, a := range result.NewAchievements {
		keys = append(keys, a.Key)
	}
	assert.Contains(t, keys, "first_exercise")
}

func TestSubmitExerciseAnswerCountMismatch(t *testing.T) {
	svc := newExerciseService(t)
	db := svc.DB
	user := createTestUser(t, db, "exmismatch")
	subject := createTestSubject(t, db, "hist")
	exercise := createTestExercise(t, db, subject.ID, 20, 2)

	_, err := svc.Submit(user.ID, exercise.ID, &ExerciseSubmission{Answers: []int{0, 0, 0}})
	assert.ErrorIs(t, err, util.ErrAnswerCountMatch)
}

func TestSubmitExerciseNotFound(t *testing.T) {
	svc := newExerciseService(t)
	user := createTestUser(t, svc.DB, "exmissing")

	_, err := svc.Submit(user.ID, 424242, &ExerciseSubmission{Answers: []int{0}})
	assert.ErrorIs(t, err, util.ErrExerciseNotFound)
}
