package controller

import (
	"strconv"

	"educonnect_backend/internal/service"
	"educonnect_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// List godoc
// @Summary 测验列表
// @Description 可按学科和难度过滤，登录用户附带已提交次数
// @Tags 测验
// @Produce  json
// @Param   subjectId query int false "学科 ID"
// @Param   difficulty query string false "难度" Enums(easy, medium, hard)
// @Success 200 {object} util.Response{data=[]repository.QuizSummary} "测验列表"
// @Router /api/quizzes [get]
func (c *QuizController) List(ctx *gin.Context) {
	subjectID, _ := strconv.ParseUint(ctx.Query("subjectId"), 10, 32)
	difficulty := ctx.Query("difficulty")

	quizzes, err := c.QuizService.List(uint(subjectID), difficulty, currentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// Get godoc
// @Summary 测验详情
// @Description 测验及按序排列的题目，不含正确答案
// @Tags 测验
// @Produce  json
// @Param   id path int true "测验 ID"
// @Success 200 {object} util.Response{data=model.Quiz} "测验"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{id} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	quiz, err := c.QuizService.GetWithQuestions(id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// Questions godoc
// @Summary 测验题目
// @Description 按序排列的题目，不含正确答案与解析
// @Tags 测验
// @Produce  json
// @Param   id path int true "测验 ID"
// @Success 200 {object} util.Response{data=[]model.QuizQuestion} "题目列表"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{id}/questions [get]
func (c *QuizController) Questions(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	quiz, err := c.QuizService.GetWithQuestions(id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, quiz.Questions)
}

// Submit godoc
// @Summary 提交测验
// @Description 判分并结算。只有首次提交发 XP，重复提交只记录成绩
// @Tags 测验
// @Accept  json
// @Produce  json
// @Param   id path int true "测验 ID"
// @Param   body body service.QuizSubmission true "答案"
// @Success 200 {object} util.Response{data=service.QuizResult} "判分结果"
// @Failure 400 {object} util.Response "答案数量与题目数量不符"
// @Failure 404 {object} util.Response "测验不存在"
// @Security BearerAuth
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req service.QuizSubmission
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.Submit(claims.UserID, id, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Attempts godoc
// @Summary 提交历史
// @Description 当前用户对指定测验的全部提交记录
// @Tags 测验
// @Produce  json
// @Param   id path int true "测验 ID"
// @Success 200 {object} util.Response{data=[]repository.AttemptHistory} "提交历史"
// @Security BearerAuth
// @Router /api/quizzes/{id}/attempts [get]
func (c *QuizController) Attempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	attempts, err := c.QuizService.Attempts(claims.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// Leaderboard godoc
// @Summary 单测验排行
// @Description 按正确率降序、用时升序
// @Tags 测验
// @Produce  json
// @Param   id path int true "测验 ID"
// @Param   limit query int false "条数" default(10)
// @Success 200 {object} util.Response{data=[]repository.QuizRank} "排行"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{id}/leaderboard [get]
func (c *QuizController) Leaderboard(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	ranks, err := c.QuizService.Leaderboard(id, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, ranks)
}
