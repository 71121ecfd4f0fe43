package model

// swagger:model Exercise
type Exercise struct {
	BaseModel
	SubjectID   uint   `gorm:"index;not null" json:"subjectId"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"size:500" json:"description"`
	Emoji       string `gorm:"size:10" json:"emoji"`
	Difficulty  string `gorm:"size:20;default:'easy'" json:"difficulty"`
	XPReward    int    `gorm:"default:20" json:"xpReward"`

	Questions []ExerciseQuestion `gorm:"foreignKey:ExerciseID" json:"questions,omitempty"`
}

func (Exercise) TableName() string {
	return "exercises"
}

type ExerciseQuestion struct {
	BaseModel
	ExerciseID    uint   `gorm:"index;not null" json:"exerciseId"`
	QuestionText  string `gorm:"type:text;not null" json:"questionText"`
	Emoji         string `gorm:"size:10" json:"emoji"`
	OptionA       string `gorm:"size:500;not null" json:"optionA"`
	OptionB       string `gorm:"size:500;not null" json:"optionB"`
	OptionC       string `gorm:"size:500;not null" json:"optionC"`
	OptionD       string `gorm:"size:500;not null" json:"optionD"`
	CorrectOption int    `gorm:"not null" json:"-"`
	OrderIndex    int    `gorm:"default:0;index" json:"orderIndex"`
}

func (ExerciseQuestion) TableName() string {
	return "exercise_questions"
}

// ExerciseAttempt 练习不限次数，每次按得分比例奖励 XP
type ExerciseAttempt struct {
	BaseModel
	UserID         uint    `gorm:"index:idx_user_exercise;not null" json:"userId"`
	ExerciseID     uint    `gorm:"index:idx_user_exercise;not null" json:"exerciseId"`
	Score          int     `gorm:"not null" json:"score"`
	TotalQuestions int     `gorm:"not null" json:"totalQuestions"`
	Percentage     float64 `gorm:"not null" json:"percentage"`
	XPEarned       int     `gorm:"default:0" json:"xpEarned"`
	TimeSpent      int     `gorm:"default:0" json:"timeSpent"`
	Answers        []int   `gorm:"serializer:json" json:"answers"`
}

func (ExerciseAttempt) TableName() string {
	return "exercise_attempts"
}
