package model

import "time"

// Subject 学科，内容层级的根节点
// swagger:model Subject
type Subject struct {
	BaseModel
	Key         string `gorm:"size:50;uniqueIndex;not null" json:"key"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Emoji       string `gorm:"size:10" json:"emoji"`
	Description string `gorm:"size:500" json:"description"`
	OrderIndex  int    `gorm:"default:0;index" json:"orderIndex"`
}

func (Subject) TableName() string {
	return "subjects"
}

// swagger:model Chapter
type Chapter struct {
	BaseModel
	SubjectID   uint   `gorm:"index;not null" json:"subjectId"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"size:500" json:"description"`
	OrderIndex  int    `gorm:"default:0;index" json:"orderIndex"`
}

func (Chapter) TableName() string {
	return "chapters"
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	ChapterID  uint   `gorm:"index;not null" json:"chapterId"`
	Title      string `gorm:"size:200;not null" json:"title"`
	Content    string `gorm:"type:text" json:"content"`
	XPReward   int    `gorm:"default:20" json:"xpReward"`
	OrderIndex int    `gorm:"default:0;index" json:"orderIndex"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// LessonCompletion 课程完成记录，(user, lesson) 唯一，重复提交为幂等空操作
type LessonCompletion struct {
	BaseModel
	UserID      uint      `gorm:"uniqueIndex:idx_user_lesson;not null" json:"userId"`
	LessonID    uint      `gorm:"uniqueIndex:idx_user_lesson;not null" json:"lessonId"`
	TimeSpent   int       `gorm:"default:0" json:"timeSpent"`
	CompletedAt time.Time `json:"completedAt"`
}

func (LessonCompletion) TableName() string {
	return "lesson_completions"
}

// UserSubjectProgress 每学科进度，代替原先按学科展开的动态列
type UserSubjectProgress struct {
	BaseModel
	UserID    uint `gorm:"uniqueIndex:idx_user_subject;not null" json:"userId"`
	SubjectID uint `gorm:"uniqueIndex:idx_user_subject;not null" json:"subjectId"`
	Progress  int  `gorm:"default:0" json:"progress"`
}

func (UserSubjectProgress) TableName() string {
	return "user_subject_progress"
}
