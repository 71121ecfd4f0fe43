package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"educonnect_backend/internal/config"
	"educonnect_backend/internal/middleware"
	"educonnect_backend/internal/model"
	"educonnect_backend/internal/repository"
	"educonnect_backend/internal/service"
	"educonnect_backend/pkg/database"
	"educonnect_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
	gin.SetMode(gin.TestMode)
}

type apiEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// newAPIEnv 装配一套贴近生产路由的测试栈：内存库 + 真实
// 中间件与控制器，不含 Redis 与对象存储。
func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{}
	cfg.JWT.Secret = "api-test-secret"
	cfg.JWT.RefreshSecret = "api-test-refresh-secret"
	cfg.JWT.ExpireTime = 15 * time.Minute
	cfg.JWT.RefreshExpireTime = 7 * 24 * time.Hour

	achievements := service.NewAchievementService(db, repository.NewAchievementRepository(db))
	progression := service.NewProgressionService(db, achievements)
	auth := service.NewAuthService(db, cfg,
		repository.NewUserRepository(db), repository.NewRefreshTokenRepository(db),
		progression, achievements)
	content := service.NewContentService(db,
		repository.NewContentRepository(db), repository.NewUserRepository(db), achievements)
	quizzes := service.NewQuizService(db, repository.NewQuizRepository(db), progression)
	users := service.NewUserService(db, repository.NewUserRepository(db),
		repository.NewAchievementRepository(db), repository.NewActivityRepository(db),
		repository.NewContentRepository(db))
	storage := service.NewStorageService(cfg)

	authCtl := NewAuthController(auth)
	contentCtl := NewContentController(content)
	quizCtl := NewQuizController(quizzes)
	userCtl := NewUserController(users, storage)

	router := gin.New()
	api := router.Group("/api")
	api.POST("/auth/register", authCtl.Register)
	api.POST("/auth/login", authCtl.Login)
	api.GET("/auth/me", middleware.AuthMiddleware(cfg), authCtl.Me)

	optional := api.Group("", middleware.TryAuthMiddleware(cfg))
	optional.GET("/subjects", contentCtl.ListSubjects)
	optional.GET("/quizzes/:id", quizCtl.Get)

	authorized := api.Group("", middleware.AuthMiddleware(cfg))
	authorized.POST("/lessons/:id/complete", contentCtl.CompleteLesson)
	authorized.POST("/quizzes/:id/submit", quizCtl.Submit)
	authorized.GET("/users/profile", userCtl.Profile)
	authorized.GET("/users/activity", userCtl.Activity)

	return &apiEnv{DB: db, Router: router}
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.Router.ServeHTTP(rr, req)
	return rr
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	var resp struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	if out != nil {
		require.NoError(t, json.Unmarshal(resp.Data, out))
	}
}

// register 注册并返回访问令牌
func (e *apiEnv) register(t *testing.T, username string) string {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var result service.AuthResult
	decodeData(t, rr, &result)
	require.NotEmpty(t, result.Tokens.AccessToken)
	return result.Tokens.AccessToken
}

func TestRegisterAndMe(t *testing.T) {
	env := newAPIEnv(t)
	token := env.register(t, "alice")

	rr := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var user model.User
	decodeData(t, rr, &user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, 1, user.Streak, "registration counts as first login")
}

func TestRegisterValidation(t *testing.T) {
	env := newAPIEnv(t)

	rr := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "ab", // 太短
		"email":    "ab@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newAPIEnv(t)
	env.register(t, "alice")

	rr := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMeRequiresToken(t *testing.T) {
	env := newAPIEnv(t)

	rr := env.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/auth/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSubjectsPublic(t *testing.T) {
	env := newAPIEnv(t)
	require.NoError(t, env.DB.Create(&model.Subject{Key: "math", Name: "Math", Emoji: "📐"}).Error)

	rr := env.do(t, http.MethodGet, "/api/subjects", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var subjects []service.SubjectView
	decodeData(t, rr, &subjects)
	require.Len(t, subjects, 1)
	assert.Equal(t, "math", subjects[0].Key)
}

func TestCompleteLessonOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	token := env.register(t, "alice")

	subject := &model.Subject{Key: "math", Name: "Math", Emoji: "📐"}
	require.NoError(t, env.DB.Create(subject).Error)
	chapter := &model.Chapter{SubjectID: subject.ID, Title: "Chapter"}
	require.NoError(t, env.DB.Create(chapter).Error)
	lesson := &model.Lesson{ChapterID: chapter.ID, Title: "Lesson", XPReward: 20}
	require.NoError(t, env.DB.Create(lesson).Error)

	path := fmt.Sprintf("/api/lessons/%d/complete", lesson.ID)

	rr := env.do(t, http.MethodPost, path, "", gin.H{"timeSpent": 60})
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "completion requires login")

	rr = env.do(t, http.MethodPost, path, token, gin.H{"timeSpent": 60})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result service.CompleteLessonResult
	decodeData(t, rr, &result)
	assert.False(t, result.AlreadyCompleted)
	assert.Equal(t, 20, result.XPEarned)

	// 重复提交幂等
	rr = env.do(t, http.MethodPost, path, token, gin.H{"timeSpent": 60})
	require.Equal(t, http.StatusOK, rr.Code)
	decodeData(t, rr, &result)
	assert.True(t, result.AlreadyCompleted)
	assert.Equal(t, 0, result.XPEarned)
}

// 注册 → 完成一节 20 XP 的课程 → 个人主页与活动流水对得上
func TestLessonCompletionReflectedInProfile(t *testing.T) {
	env := newAPIEnv(t)
	token := env.register(t, "alice")

	subject := &model.Subject{Key: "math", Name: "Math", Emoji: "📐"}
	require.NoError(t, env.DB.Create(subject).Error)
	chapter := &model.Chapter{SubjectID: subject.ID, Title: "Chapter"}
	require.NoError(t, env.DB.Create(chapter).Error)
	lesson := &model.Lesson{ChapterID: chapter.ID, Title: "Lesson", XPReward: 20}
	require.NoError(t, env.DB.Create(lesson).Error)

	rr := env.do(t, http.MethodPost,
		fmt.Sprintf("/api/lessons/%d/complete", lesson.ID), token, gin.H{"timeSpent": 60})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = env.do(t, http.MethodGet, "/api/users/profile", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var profile service.Profile
	decodeData(t, rr, &profile)
	// first_login +10、课程 +20、first_lesson +10
	assert.Equal(t, 40, profile.User.XP)
	assert.Equal(t, 1, profile.User.Level)
	assert.Equal(t, int64(40), profile.Stats.TotalXP)
	assert.Equal(t, int64(1), profile.Stats.LessonsCompleted)
	assert.Equal(t, int64(2), profile.Stats.AchievementsCount)
	assert.Equal(t, 60, profile.Stats.TotalStudyTime)

	rr = env.do(t, http.MethodGet, "/api/users/activity", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var page struct {
		List  []model.ActivityHistory `json:"list"`
		Total int64                   `json:"total"`
	}
	decodeData(t, rr, &page)
	lessonEntries := 0
	for _, item := range page.List {
		if item.ActivityType == model.ActivityLesson {
			lessonEntries++
			assert.Equal(t, 20, item.XPEarned)
		}
	}
	assert.Equal(t, 1, lessonEntries, "exactly one lesson activity row")
}

func TestCompleteLessonNotFound(t *testing.T) {
	env := newAPIEnv(t)
	token := env.register(t, "alice")

	rr := env.do(t, http.MethodPost, "/api/lessons/999/complete", token, gin.H{})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestQuizSubmitOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	token := env.register(t, "alice")

	subject := &model.Subject{Key: "math", Name: "Math", Emoji: "📐"}
	require.NoError(t, env.DB.Create(subject).Error)
	quiz := &model.Quiz{SubjectID: subject.ID, Title: "Quiz", XPBaseReward: 40}
	require.NoError(t, env.DB.Create(quiz).Error)
	for i := 0; i < 2; i++ {
		require.NoError(t, env.DB.Create(&model.QuizQuestion{
			QuizID:       quiz.ID,
			QuestionText: "q",
			OptionA:      "a", OptionB: "b", OptionC: "c", OptionD: "d",
			OrderIndex:   i,
		}).Error)
	}

	path := fmt.Sprintf("/api/quizzes/%d/submit", quiz.ID)

	// 答案数量不符
	rr := env.do(t, http.MethodPost, path, token, gin.H{"answers": []int{0}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodPost, path, token, gin.H{"answers": []int{0, 0}, "timeSpent": 30})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result service.QuizResult
	decodeData(t, rr, &result)
	assert.True(t, result.IsFirstAttempt)
	assert.InDelta(t, 100.0, result.Percentage, 0.01)
	assert.Equal(t, 90, result.XPEarned, "base + percentage bonus + perfect bonus")
}

func TestTamperedTokenRejected(t *testing.T) {
	env := newAPIEnv(t)
	token := env.register(t, "alice")

	rr := env.do(t, http.MethodGet, "/api/auth/me", token+"x", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
