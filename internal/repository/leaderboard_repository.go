package repository

import (
	"time"

	"educonnect_backend/internal/model"

	"gorm.io/gorm"
)

type LeaderboardRepository struct {
	DB *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) *LeaderboardRepository {
	return &LeaderboardRepository{DB: db}
}

// RankedUser 排行榜条目，Rank 由查询侧按序补齐
type RankedUser struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Level    int    `json:"level"`
	XP       int    `json:"xp"`
	Streak   int    `json:"streak"`
	Value    int64  `json:"value"`
	Rank     int    `json:"rank"`
}

// GlobalTop 按 (xp desc, level desc) 排名
func (r *LeaderboardRepository) GlobalTop(limit, offset int) ([]RankedUser, error) {
	var rows []RankedUser
	err := r.DB.Model(&model.User{}).
		Select("users.id AS user_id, users.username, users.avatar, users.level, users.xp, users.streak").
		Order("users.xp DESC, users.level DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Rank = offset + i + 1
	}
	return rows, nil
}

// GlobalRank 用同一排序重算指定用户的名次
func (r *LeaderboardRepository) GlobalRank(userID uint) (int, error) {
	user := struct {
		XP    int
		Level int
	}{}
	if err := r.DB.Model(&model.User{}).
		Select("xp, level").
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		return 0, err
	}

	var ahead int64
	err := r.DB.Model(&model.User{}).
		Where("xp > ? OR (xp = ? AND level > ?)", user.XP, user.XP, user.Level).
		Count(&ahead).Error
	return int(ahead) + 1, err
}

func (r *LeaderboardRepository) CountUsers() (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Count(&count).Error
	return count, err
}

// WeeklyTop 最近 7 天活动 XP 之和排名，无活动的用户不出现
func (r *LeaderboardRepository) WeeklyTop(limit int) ([]RankedUser, error) {
	since := time.Now().AddDate(0, 0, -7)

	var rows []RankedUser
	err := r.DB.Model(&model.ActivityHistory{}).
		Select(`users.id AS user_id, users.username, users.avatar, users.level, users.xp, users.streak,
			SUM(activity_history.xp_earned) AS value`).
		Joins("JOIN users ON users.id = activity_history.user_id").
		Where("activity_history.created_at >= ?", since).
		Group("users.id, users.username, users.avatar, users.level, users.xp, users.streak").
		Order("value DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

func (r *LeaderboardRepository) WeeklyRank(userID uint) (int, error) {
	since := time.Now().AddDate(0, 0, -7)

	var own int64
	err := r.DB.Model(&model.ActivityHistory{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Select("COALESCE(SUM(xp_earned), 0)").
		Scan(&own).Error
	if err != nil {
		return 0, err
	}
	if own == 0 {
		return 0, nil
	}

	var ahead int64
	err = r.DB.Raw(`SELECT COUNT(*) FROM (
			SELECT user_id, SUM(xp_earned) AS total
			FROM activity_history
			WHERE created_at >= ? AND deleted_at IS NULL
			GROUP BY user_id
		) ranked WHERE ranked.total > ?`, since, own).Scan(&ahead).Error
	return int(ahead) + 1, err
}

// StreakTop 按 (streak desc, xp desc) 排名，streak=0 不出现
func (r *LeaderboardRepository) StreakTop(limit int) ([]RankedUser, error) {
	var rows []RankedUser
	err := r.DB.Model(&model.User{}).
		Select("users.id AS user_id, users.username, users.avatar, users.level, users.xp, users.streak").
		Where("users.streak > 0").
		Order("users.streak DESC, users.xp DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

func (r *LeaderboardRepository) StreakRank(userID uint) (int, error) {
	user := struct {
		Streak int
		XP     int
	}{}
	if err := r.DB.Model(&model.User{}).
		Select("streak, xp").
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		return 0, err
	}
	if user.Streak == 0 {
		return 0, nil
	}

	var ahead int64
	err := r.DB.Model(&model.User{}).
		Where("streak > ? OR (streak = ? AND xp > ?)", user.Streak, user.Streak, user.XP).
		Count(&ahead).Error
	return int(ahead) + 1, err
}

// SubjectTop 按学科进度排名，零进度不出现
func (r *LeaderboardRepository) SubjectTop(subjectID uint, limit int) ([]RankedUser, error) {
	var rows []RankedUser
	err := r.DB.Model(&model.UserSubjectProgress{}).
		Select(`users.id AS user_id, users.username, users.avatar, users.level, users.xp, users.streak,
			user_subject_progress.progress AS value`).
		Joins("JOIN users ON users.id = user_subject_progress.user_id").
		Where("user_subject_progress.subject_id = ? AND user_subject_progress.progress > 0", subjectID).
		Order("user_subject_progress.progress DESC, users.xp DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

func (r *LeaderboardRepository) SubjectRank(subjectID, userID uint) (int, error) {
	row := struct {
		Progress int
		XP       int
	}{}
	err := r.DB.Model(&model.UserSubjectProgress{}).
		Select("user_subject_progress.progress, users.xp").
		Joins("JOIN users ON users.id = user_subject_progress.user_id").
		Where("user_subject_progress.subject_id = ? AND user_subject_progress.user_id = ?", subjectID, userID).
		First(&row).Error
	if err != nil {
		return 0, err
	}
	if row.Progress == 0 {
		return 0, nil
	}

	var ahead int64
	err = r.DB.Model(&model.UserSubjectProgress{}).
		Joins("JOIN users ON users.id = user_subject_progress.user_id").
		Where("user_subject_progress.subject_id = ?", subjectID).
		Where("user_subject_progress.progress > ? OR (user_subject_progress.progress = ? AND users.xp > ?)",
			row.Progress, row.Progress, row.XP).
		Count(&ahead).Error
	return int(ahead) + 1, err
}

// UsersForCache 缓存重建用的全量用户序
func (r *LeaderboardRepository) UsersForCache() ([]model.User, error) {
	var users []model.User
	err := r.DB.Order("xp DESC, level DESC").Find(&users).Error
	return users, err
}

// ReplaceCache 全量删除后重建缓存表
func (r *LeaderboardRepository) ReplaceCache(entries []model.LeaderboardCache) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&model.LeaderboardCache{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.CreateInBatches(entries, 200).Error
	})
}

func (r *LeaderboardRepository) CacheTop(limit, offset int) ([]model.LeaderboardCache, error) {
	var entries []model.LeaderboardCache
	err := r.DB.Order("`rank` ASC").Limit(limit).Offset(offset).Find(&entries).Error
	return entries, err
}
