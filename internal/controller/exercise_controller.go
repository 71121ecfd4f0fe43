package controller

import (
	"strconv"

	"educonnect_backend/internal/service"
	"educonnect_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExerciseController struct {
	ExerciseService *service.ExerciseService
}

func NewExerciseController(exerciseService *service.ExerciseService) *ExerciseController {
	return &ExerciseController{ExerciseService: exerciseService}
}

// List godoc
// @Summary 练习列表
// @Description 可按学科和难度过滤，登录用户附带已提交次数
// @Tags 练习
// @Produce  json
// @Param   subjectId query int false "学科 ID"
// @Param   difficulty query string false "难度" Enums(easy, medium, hard)
// @Success 200 {object} util.Response{data=[]repository.ExerciseSummary} "练习列表"
// @Router /api/exercises [get]
func (c *ExerciseController) List(ctx *gin.Context) {
	subjectID, _ := strconv.ParseUint(ctx.Query("subjectId"), 10, 32)
	difficulty := ctx.Query("difficulty")

	exercises, err := c.ExerciseService.List(uint(subjectID), difficulty, currentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, exercises)
}

// Get godoc
// @Summary 练习详情
// @Description 练习及按序排列的题目，不含正确答案
// @Tags 练习
// @Produce  json
// @Param   id path int true "练习 ID"
// @Success 200 {object} util.Response{data=model.Exercise} "练习"
// @Failure 404 {object} util.Response "练习不存在"
// @Router /api/exercises/{id} [get]
func (c *ExerciseController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	exercise, err := c.ExerciseService.GetWithQuestions(id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, exercise)
}

// Submit godoc
// @Summary 提交练习
// @Description 判分并按得分比例发 XP，不限提交次数
// @Tags 练习
// @Accept  json
// @Produce  json
// @Param   id path int true "练习 ID"
// @Param   body body service.ExerciseSubmission true "答案"
// @Success 200 {object} util.Response{data=service.ExerciseResult} "判分结果"
// @Failure 400 {object} util.Response "答案数量与题目数量不符"
// @Failure 404 {object} util.Response "练习不存在"
// @Security BearerAuth
// @Router /api/exercises/{id}/submit [post]
func (c *ExerciseController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req service.ExerciseSubmission
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ExerciseService.Submit(claims.UserID, id, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Attempts godoc
// @Summary 提交历史
// @Description 当前用户对指定练习的全部提交记录
// @Tags 练习
// @Produce  json
// @Param   id path int true "练习 ID"
// @Success 200 {object} util.Response{data=[]repository.ExerciseAttemptHistory} "提交历史"
// @Security BearerAuth
// @Router /api/exercises/{id}/attempts [get]
func (c *ExerciseController) Attempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	attempts, err := c.ExerciseService.Attempts(claims.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}
