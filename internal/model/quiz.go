package model

// swagger:model Quiz
type Quiz struct {
	BaseModel
	SubjectID    uint   `gorm:"index;not null" json:"subjectId"`
	Title        string `gorm:"size:200;not null" json:"title"`
	Description  string `gorm:"size:500" json:"description"`
	Emoji        string `gorm:"size:10" json:"emoji"`
	Difficulty   string `gorm:"size:20;default:'easy'" json:"difficulty"`
	XPBaseReward int    `gorm:"default:40" json:"xpBaseReward"`

	Questions []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion 四选一题目，CorrectOption 为 0-3 的选项下标
type QuizQuestion struct {
	BaseModel
	QuizID        uint   `gorm:"index;not null" json:"quizId"`
	QuestionText  string `gorm:"type:text;not null" json:"questionText"`
	OptionA       string `gorm:"size:500;not null" json:"optionA"`
	OptionB       string `gorm:"size:500;not null" json:"optionB"`
	OptionC       string `gorm:"size:500;not null" json:"optionC"`
	OptionD       string `gorm:"size:500;not null" json:"optionD"`
	CorrectOption int    `gorm:"not null" json:"-"`
	Explanation   string `gorm:"size:1000" json:"-"`
	OrderIndex    int    `gorm:"default:0;index" json:"orderIndex"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuizAttempt 一次测验提交。AttemptNumber 在 (user, quiz) 内唯一，
// 并发的两个"首次"提交会在唯一索引上冲突，败者按重复提交重算。
type QuizAttempt struct {
	BaseModel
	UserID         uint    `gorm:"uniqueIndex:idx_user_quiz_attempt;not null" json:"userId"`
	QuizID         uint    `gorm:"uniqueIndex:idx_user_quiz_attempt;not null" json:"quizId"`
	AttemptNumber  int     `gorm:"uniqueIndex:idx_user_quiz_attempt;not null" json:"attemptNumber"`
	Score          int     `gorm:"not null" json:"score"`
	TotalQuestions int     `gorm:"not null" json:"totalQuestions"`
	Percentage     float64 `gorm:"not null" json:"percentage"`
	XPEarned       int     `gorm:"default:0" json:"xpEarned"`
	TimeSpent      int     `gorm:"default:0" json:"timeSpent"`
	IsFirstAttempt bool    `gorm:"not null" json:"isFirstAttempt"`
	Answers        []int   `gorm:"serializer:json" json:"answers"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
