package controller

import (
	"strconv"

	"educonnect_backend/internal/service"
	"educonnect_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func currentUserID(ctx *gin.Context) uint {
	if claims := util.GetUserFromContext(ctx); claims != nil {
		return claims.UserID
	}
	return 0
}

// ListSubjects godoc
// @Summary 学科列表
// @Description 按 order_index 排序，登录用户附带个人进度
// @Tags 内容
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.SubjectView} "学科列表"
// @Router /api/subjects [get]
func (c *ContentController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.ContentService.ListSubjects(currentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// SubjectChapters godoc
// @Summary 学科章节
// @Description 学科信息及其章节列表
// @Tags 内容
// @Produce  json
// @Param   id path int true "学科 ID"
// @Success 200 {object} util.Response "学科与章节"
// @Failure 404 {object} util.Response "学科不存在"
// @Router /api/subjects/{id}/chapters [get]
func (c *ContentController) SubjectChapters(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	subject, chapters, err := c.ContentService.GetSubjectChapters(id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"subject": subject, "chapters": chapters})
}

// ChapterLessons godoc
// @Summary 章节课程
// @Description 章节及其课程列表，登录用户标记完成状态
// @Tags 内容
// @Produce  json
// @Param   id path int true "章节 ID"
// @Success 200 {object} util.Response{data=service.ChapterView} "章节与课程"
// @Failure 404 {object} util.Response "章节不存在"
// @Router /api/chapters/{id}/lessons [get]
func (c *ContentController) ChapterLessons(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	view, err := c.ContentService.GetChapterLessons(id, currentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// GetLesson godoc
// @Summary 课程详情
// @Description 课程正文与奖励信息
// @Tags 内容
// @Produce  json
// @Param   id path int true "课程 ID"
// @Success 200 {object} util.Response{data=model.Lesson} "课程"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/lessons/{id} [get]
func (c *ContentController) GetLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	lesson, err := c.ContentService.GetLesson(id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// CompleteLessonRequest 完成课程请求
type CompleteLessonRequest struct {
	TimeSpent int `json:"timeSpent" binding:"omitempty,min=0"`
}

// CompleteLesson godoc
// @Summary 完成课程
// @Description 幂等结算课程奖励：首次完成发 XP 并推进学科进度，重复提交为空操作
// @Tags 内容
// @Accept  json
// @Produce  json
// @Param   id path int true "课程 ID"
// @Param   body body CompleteLessonRequest false "学习时长"
// @Success 200 {object} util.Response{data=service.CompleteLessonResult} "结算结果"
// @Failure 404 {object} util.Response "课程不存在"
// @Security BearerAuth
// @Router /api/lessons/{id}/complete [post]
func (c *ContentController) CompleteLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req CompleteLessonRequest
	_ = ctx.ShouldBindJSON(&req)

	result, err := c.ContentService.CompleteLesson(claims.UserID, id, req.TimeSpent)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
