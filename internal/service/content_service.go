package service

import (
	"errors"
	"time"

	"educonnect_backend/internal/model"
	"educonnect_backend/internal/repository"
	"educonnect_backend/internal/util"
	"educonnect_backend/pkg/logger"
	"educonnect_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubjectView 学科及当前用户在该学科下的进度
type SubjectView struct {
	model.Subject
	Progress int `json:"progress"`
}

// ChapterView 章节及课程清单
type ChapterView struct {
	model.Chapter
	Lessons []LessonView `json:"lessons"`
}

// LessonView 课程及当前用户的完成状态
type LessonView struct {
	model.Lesson
	Completed bool `json:"completed"`
}

// CompleteLessonResult 课程完成结算
type CompleteLessonResult struct {
	AlreadyCompleted bool                `json:"alreadyCompleted"`
	XPEarned         int                 `json:"xpEarned"`
	Progression      *XPResult           `json:"progression,omitempty"`
	NewAchievements  []model.Achievement `json:"newAchievements"`
}

// ContentService 学科/章节/课程内容与完成结算
type ContentService struct {
	DB           *gorm.DB
	Repo         *repository.ContentRepository
	Users        *repository.UserRepository
	Achievements *AchievementService
}

func NewContentService(db *gorm.DB, repo *repository.ContentRepository, users *repository.UserRepository, achievements *AchievementService) *ContentService {
	return &ContentService{DB: db, Repo: repo, Users: users, Achievements: achievements}
}

// ListSubjects 学科列表，userID 非 0 时附带个人进度
func (s *ContentService) ListSubjects(userID uint) ([]SubjectView, error) {
	subjects, err := s.Repo.ListSubjects()
	if err != nil {
		return nil, err
	}

	progressBySubject := map[uint]int{}
	if userID != 0 {
		rows, err := s.Repo.SubjectProgressByUser(userID)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			progressBySubject[r.SubjectID] = r.Progress
		}
	}

	views := make([]SubjectView, 0, len(subjects))
	for _, subj := range subjects {
		views = append(views, SubjectView{
			Subject:  subj,
			Progress: progressBySubject[subj.ID],
		})
	}
	return views, nil
}

// GetSubjectChapters 学科下的章节，按 order_index 排序
func (s *ContentService) GetSubjectChapters(subjectID uint) (*model.Subject, []model.Chapter, error) {
	subject, err := s.Repo.FindSubjectByID(subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrSubjectNotFound
		}
		return nil, nil, err
	}
	chapters, err := s.Repo.ListChaptersBySubject(subjectID)
	if err != nil {
		return nil, nil, err
	}
	return subject, chapters, nil
}

// GetChapterLessons 章节下的课程，userID 非 0 时标记完成状态
func (s *ContentService) GetChapterLessons(chapterID, userID uint) (*ChapterView, error) {
	chapter, err := s.Repo.FindChapterByID(chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChapterNotFound
		}
		return nil, err
	}
	lessons, err := s.Repo.ListLessonsByChapter(chapterID)
	if err != nil {
		return nil, err
	}

	completed := map[uint]bool{}
	if userID != 0 {
		rows, err := s.Repo.CompletionsByUser(userID)
		if err != nil {
			return nil, err
		}
		for _, c := range rows {
			completed[c.LessonID] = true
		}
	}

	view := &ChapterView{Chapter: *chapter, Lessons: make([]LessonView, 0, len(lessons))}
	for _, l := range lessons {
		view.Lessons = append(view.Lessons, LessonView{Lesson: l, Completed: completed[l.ID]})
	}
	return view, nil
}

func (s *ContentService) GetLesson(lessonID uint) (*model.Lesson, error) {
	lesson, err := s.Repo.FindLessonByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

// CompleteLesson 完成一节课。幂等：已完成直接返回，不重复发
// XP。首次完成发课程奖励、累计学习时长、学科进度 +1，并跑一
// 轮成就判定，全部在同一事务内。
func (s *ContentService) CompleteLesson(userID, lessonID uint, timeSpent int) (*CompleteLessonResult, error) {
	lesson, err := s.Repo.FindLessonByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	if _, err := s.Repo.FindCompletion(userID, lessonID); err == nil {
		return &CompleteLessonResult{
			AlreadyCompleted: true,
			NewAchievements:  []model.Achievement{},
		}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	chapter, err := s.Repo.FindChapterByID(lesson.ChapterID)
	if err != nil {
		return nil, err
	}

	var result *CompleteLessonResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		completion := &model.LessonCompletion{
			UserID:      userID,
			LessonID:    lessonID,
			TimeSpent:   timeSpent,
			CompletedAt: time.Now(),
		}
		if err := tx.Create(completion).Error; err != nil {
			if isDuplicateKey(err) {
				// 并发重复完成，按幂等空操作处理
				result = &CompleteLessonResult{
					AlreadyCompleted: true,
					NewAchievements:  []model.Achievement{},
				}
				return nil
			}
			return err
		}

		if err := repository.Append(tx, userID, model.ActivityLesson,
			"Completed lesson: "+lesson.Title, lesson.XPReward,
			map[string]any{
				"lessonId":  lessonID,
				"chapterId": lesson.ChapterID,
				"subjectId": chapter.SubjectID,
			}); err != nil {
			return err
		}

		progression, err := applyXP(tx, userID, lesson.XPReward)
		if err != nil {
			return err
		}

		if err := repository.UpsertSubjectProgress(tx, userID, chapter.SubjectID, 1); err != nil {
			return err
		}

		if timeSpent > 0 {
			if err := repository.AddStudyTime(tx, userID, timeSpent); err != nil {
				return err
			}
		}

		result = &CompleteLessonResult{
			XPEarned:        lesson.XPReward,
			Progression:     progression,
			NewAchievements: []model.Achievement{},
		}
		unlocked, err := s.Achievements.CheckAndUnlockTx(tx, userID)
		if err != nil {
			logger.Log.Warn("achievement check failed after lesson completion",
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
		monitoring.XPAwarded.WithLabelValues(model.ActivityLesson).Add(float64(result.XPEarned))
	}
	return result, nil
}
