package repository

import (
	"educonnect_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

// ExistsByEmailOrUsername 注册查重
func (r *UserRepository) ExistsByEmailOrUsername(email, username string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	return count > 0, err
}

// UsernameTaken 检查用户名是否已被他人占用
func (r *UserRepository) UsernameTaken(username string, excludeID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.User{}).
		Where("username = ? AND id != ?", username, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// UpdateLoginSecurity 单独写失败计数和锁定时间，避免覆盖其他并发更新的字段
func (r *UserRepository) UpdateLoginSecurity(userID uint, failedAttempts int, lockedUntil interface{}) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"failed_login_attempts": failedAttempts,
			"locked_until":          lockedUntil,
		}).Error
}

// AddStudyTime 学习时长累加，和课程完成同事务提交
func AddStudyTime(tx *gorm.DB, userID uint, seconds int) error {
	return tx.Model(&model.User{}).
		Where("id = ?", userID).
		Update("total_study_time", gorm.Expr("total_study_time + ?", seconds)).
		Error
}
