package repository

import (
	"educonnect_backend/internal/model"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

// Append 写一条活动流水（只追加）
func Append(tx *gorm.DB, userID uint, activityType, title string, xpEarned int, metadata map[string]any) error {
	return tx.Create(&model.ActivityHistory{
		UserID:        userID,
		ActivityType:  activityType,
		ActivityTitle: title,
		XPEarned:      xpEarned,
		Metadata:      metadata,
	}).Error
}

func (r *ActivityRepository) ListByUser(userID uint, limit, offset int) ([]model.ActivityHistory, int64, error) {
	var activities []model.ActivityHistory
	var total int64

	if err := r.DB.Model(&model.ActivityHistory{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&activities).Error
	return activities, total, err
}
