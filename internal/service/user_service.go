package service

import (
	"errors"

	"educonnect_backend/internal/model"
	"educonnect_backend/internal/repository"
	"educonnect_backend/internal/util"

	"gorm.io/gorm"
)

// ProfileStats 个人主页的聚合统计
type ProfileStats struct {
	TotalXP            int64  `json:"totalXp"`
	XPToNextLevel      int    `json:"xpToNextLevel"`
	League             string `json:"league"`
	LessonsCompleted   int64  `json:"lessonsCompleted"`
	QuizzesAttempted   int64  `json:"quizzesAttempted"`
	ExercisesAttempted int64  `json:"exercisesAttempted"`
	PerfectQuizzes     int64  `json:"perfectQuizzes"`
	AchievementsCount  int64  `json:"achievementsCount"`
	TotalStudyTime     int    `json:"totalStudyTime"`
}

// Profile 个人主页载荷
type Profile struct {
	User            *model.User                 `json:"user"`
	Stats           ProfileStats                `json:"stats"`
	SubjectProgress []model.UserSubjectProgress `json:"subjectProgress"`
}

// UpdateProfileRequest 资料修改请求，两个字段都可选
type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Avatar   *string `json:"avatar" binding:"omitempty,max=10"`
}

// UserService 个人资料、统计、成就与活动流水
type UserService struct {
	DB           *gorm.DB
	Users        *repository.UserRepository
	Achievements *repository.AchievementRepository
	Activity     *repository.ActivityRepository
	Content      *repository.ContentRepository
}

func NewUserService(db *gorm.DB, users *repository.UserRepository,
	achievements *repository.AchievementRepository,
	activity *repository.ActivityRepository,
	content *repository.ContentRepository) *UserService {
	return &UserService{
		DB:           db,
		Users:        users,
		Achievements: achievements,
		Activity:     activity,
		Content:      content,
	}
}

// GetProfile 个人主页：用户、聚合统计、学科进度
func (s *UserService) GetProfile(userID uint) (*Profile, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	stats, err := repository.LoadUserStats(s.DB, userID)
	if err != nil {
		return nil, err
	}

	var achievementsCount int64
	if err := s.DB.Model(&model.UserAchievement{}).
		Where("user_id = ?", userID).Count(&achievementsCount).Error; err != nil {
		return nil, err
	}

	progress, err := s.Content.SubjectProgressByUser(userID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = []model.UserSubjectProgress{}
	}

	return &Profile{
		User: user,
		Stats: ProfileStats{
			TotalXP:            stats.TotalXP,
			XPToNextLevel:      XPForLevel(user.Level + 1),
			League:             LeagueForLevel(user.Level),
			LessonsCompleted:   stats.LessonsCompleted,
			QuizzesAttempted:   stats.QuizzesAttempted,
			ExercisesAttempted: stats.ExercisesAttempted,
			PerfectQuizzes:     stats.PerfectQuizzes,
			AchievementsCount:  achievementsCount,
			TotalStudyTime:     user.TotalStudyTime,
		},
		SubjectProgress: progress,
	}, nil
}

// ListAchievements 全部启用成就及当前用户的解锁状态
func (s *UserService) ListAchievements(userID uint) ([]repository.AchievementWithUnlock, error) {
	return s.Achievements.ListWithUnlocks(userID)
}

// ActivityFeed 活动流水，新的在前
func (s *UserService) ActivityFeed(userID uint, limit, offset int) ([]model.ActivityHistory, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	items, total, err := s.Activity.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []model.ActivityHistory{}
	}
	return items, total, nil
}

// UpdateProfile 修改用户名/头像。用户名要查重，XP、等级这类
// 进度字段不允许从这里改。
func (s *UserService) UpdateProfile(userID uint, req *UpdateProfileRequest) (*model.User, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		taken, err := s.Users.UsernameTaken(*req.Username, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, util.ErrUsernameTaken
		}
		user.Username = *req.Username
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if err := s.Users.Update(user); err != nil {
		if isDuplicateKey(err) {
			return nil, util.ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}
