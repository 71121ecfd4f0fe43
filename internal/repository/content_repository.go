package repository

import (
	"educonnect_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) ListSubjects() ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.DB.Order("order_index ASC").Find(&subjects).Error
	return subjects, err
}

func (r *ContentRepository) FindSubjectByID(id uint) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.First(&subject, id).Error
	return &subject, err
}

func (r *ContentRepository) ListChaptersBySubject(subjectID uint) ([]model.Chapter, error) {
	var chapters []model.Chapter
	err := r.DB.Where("subject_id = ?", subjectID).Order("order_index ASC").Find(&chapters).Error
	return chapters, err
}

func (r *ContentRepository) FindChapterByID(id uint) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.DB.First(&chapter, id).Error
	return &chapter, err
}

func (r *ContentRepository) ListLessonsByChapter(chapterID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("chapter_id = ?", chapterID).Order("order_index ASC").Find(&lessons).Error
	return lessons, err
}

func (r *ContentRepository) FindLessonByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

// FindCompletion 查询用户对某课程的完成记录，未完成时返回 gorm.ErrRecordNotFound
func (r *ContentRepository) FindCompletion(userID, lessonID uint) (*model.LessonCompletion, error) {
	var completion model.LessonCompletion
	err := r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&completion).Error
	if err != nil {
		return nil, err
	}
	return &completion, nil
}

func (r *ContentRepository) CompletionsByUser(userID uint) ([]model.LessonCompletion, error) {
	var completions []model.LessonCompletion
	err := r.DB.Where("user_id = ?", userID).Find(&completions).Error
	return completions, err
}

// UpsertSubjectProgress 学科进度 +delta，不存在则插入
func UpsertSubjectProgress(tx *gorm.DB, userID, subjectID uint, delta int) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "subject_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"progress": gorm.Expr("progress + ?", delta)}),
	}).Create(&model.UserSubjectProgress{
		UserID:    userID,
		SubjectID: subjectID,
		Progress:  delta,
	}).Error
}

func (r *ContentRepository) SubjectProgressByUser(userID uint) ([]model.UserSubjectProgress, error) {
	var rows []model.UserSubjectProgress
	err := r.DB.Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}
