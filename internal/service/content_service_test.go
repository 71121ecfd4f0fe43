package service

import (
	"testing"

	"educonnect_backend/internal/model"
	"educonnect_backend/internal/repository"
	"educonnect_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContentService(t *testing.T) *ContentService {
	t.Helper()
	db, _, achievements := newTestStack(t)
	return NewContentService(db, repository.NewContentRepository(db),
		repository.NewUserRepository(db), achievements)
}

func TestCompleteLessonAwardsXP(t *testing.T) {
	svc := newContentService(t)
	db := svc.DB
	user := createTestUser(t, db, "lessondone")
	subject := createTestSubject(t, db, "math")
	lesson := createTestLesson(t, db, subject.ID, 20)

	result, err := svc.CompleteLesson(user.ID, lesson.ID, 120)
	require.NoError(t, err)

	assert.False(t, result.AlreadyCompleted)
	assert.Equal(t, 20, result.XPEarned)
	require.NotNil(t, result.Progression)

	keys := make([]string, 0, len(result.NewAchievements))
	for _, a := range result.NewAchievements {
		keys = append(keys, a.Key)
	}
	assert.Contains(t, keys, "first_lesson")

	var fresh model.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	// 课程 20 + first_lesson 奖励 10
	assert.Equal(t, 30, fresh.XP)
	assert.Equal(t, 120, fresh.TotalStudyTime)
}

func TestCompleteLessonIdempotent(t *testing.T) {
	svc := newContentService(t)
	db := svc.DB
	user := createTestUser(t, db, "lessontwice")
	subject := createTestSubject(t, db, "sci")
	lesson := createTestLesson(t, db, subject.ID, 20)

	first, err := svc.CompleteLesson(user.ID, lesson.ID, 60)
	require.NoError(t, err)
	require.False(t, first.AlreadyCompleted)

	second, err := svc.CompleteLesson(user.ID, lesson.ID, 60)
	require.NoError(t, err)
	assert.True(t, second.AlreadyCompleted)
	assert.Equal(t, 0, second.XPEarned)

	var fresh model.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.Equal(t, 30, fresh.XP, "repeat completion must not pay twice")

	var completions int64
	require.NoError(t, db.Model(&model.LessonCompletion{}).
		Where("user_id = ?", user.ID).Count(&completions).Error)
	assert.Equal(t, int64(1), completions)
}

func TestCompleteLessonAdvancesSubjectProgress(t *testing.T) {
	svc := newContentService(t)
	db := svc.DB
	user := createTestUser(t, db, "subjprogress")
	subject := createTestSubject(t, db, "geo")
	l1 := createTestLesson(t, db, subject.ID, 20)
	l2 := createTestLesson(t, db, subject.ID, 20)

	_, err := svc.CompleteLesson(user.ID, l1.ID, 0)
	require.NoError(t, err)
	_, err = svc.CompleteLesson(user.ID, l2.ID, 0)
	require.NoError(t, err)

	var progress model.UserSubjectProgress
	require.NoError(t, db.Where("user_id = ? AND subject_id = ?", user.ID, subject.ID).
		First(&progress).Error)
	assert.Equal(t, 2, progress.Progress)
}

func TestCompleteLessonNotFound(t *testing.T) {
	svc := newContentService(t)
	user := createTestUser(t, svc.DB, "lessonmissing")

	_, err := svc.CompleteLesson(user.ID, 9999, 0)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestListSubjectsWithProgress(t *testing.T) {
	svc := newContentService(t)
	db := svc.DB
	user := createTestUser(t, db, "subjlist")
	s1 := createTestSubject(t, db, "alpha")
	createTestSubject(t, db, "beta")
	lesson := createTestLesson(t, db, s1.ID, 20)

	_, err := svc.CompleteLesson(user.ID, lesson.ID, 0)
	require.NoError(t, err)

	views, err := svc.ListSubjects(user.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byKey := map[string]SubjectView{}
	for _, v := range views {
		byKey[v.Key] = v
	}
	assert.Equal(t, 1, byKey["alpha"].Progress)
	assert.Equal(t, 0, byKey["beta"].Progress)
}

func TestChapterLessonsCompletionFlags(t *testing.T) {
	svc := newContentService(t)
	db := svc.DB
	user := createTestUser(t, db, "flaguser")
	subject := createTestSubject(t, db, "flags")
	lesson := createTestLesson(t, db, subject.ID, 20)

	_, err := svc.CompleteLesson(user.ID, lesson.ID, 0)
	require.NoError(t, err)

	view, err := svc.GetChapterLessons(lesson.ChapterID, user.ID)
	require.NoError(t, err)
	require.Len(t, view.Lessons, 1)
	assert.True(t, view.Lessons[0].Completed)

	// 未登录视角不带完成标记
	anon, err := svc.GetChapterLessons(lesson.ChapterID, 0)
	require.NoError(t, err)
	assert.False(t, anon.Lessons[0].Completed)
}
