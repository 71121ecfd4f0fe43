package controller

import (
	"strconv"

	"educonnect_backend/internal/service"
	"educonnect_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
}

func NewLeaderboardController(leaderboardService *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{LeaderboardService: leaderboardService}
}

// Global godoc
// @Summary 全站排行
// @Description 按 XP 排名，分页，登录用户附带自己的名次与联赛
// @Tags 排行榜
// @Produce  json
// @Param   limit query int false "每页条数" default(50)
// @Param   offset query int false "偏移量" default(0)
// @Success 200 {object} util.Response{data=service.BoardResult} "排行"
// @Router /api/leaderboard [get]
func (c *LeaderboardController) Global(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	result, err := c.LeaderboardService.Global(ctx.Request.Context(), currentUserID(ctx), limit, offset)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Weekly godoc
// @Summary 周排行
// @Description 按近 7 天活动 XP 排名
// @Tags 排行榜
// @Produce  json
// @Param   limit query int false "条数" default(50)
// @Success 200 {object} util.Response{data=service.BoardResult} "排行"
// @Router /api/leaderboard/weekly [get]
func (c *LeaderboardController) Weekly(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	result, err := c.LeaderboardService.Weekly(currentUserID(ctx), limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Streak godoc
// @Summary 连胜排行
// @Description 按连胜天数排名，只统计连胜大于 0 的用户
// @Tags 排行榜
// @Produce  json
// @Param   limit query int false "条数" default(50)
// @Success 200 {object} util.Response{data=service.BoardResult} "排行"
// @Router /api/leaderboard/streak [get]
func (c *LeaderboardController) Streak(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	result, err := c.LeaderboardService.Streak(currentUserID(ctx), limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Subject godoc
// @Summary 学科排行
// @Description 按单学科进度排名
// @Tags 排行榜
// @Produce  json
// @Param   id path int true "学科 ID"
// @Param   limit query int false "条数" default(50)
// @Success 200 {object} util.Response{data=service.BoardResult} "排行"
// @Failure 404 {object} util.Response "学科不存在"
// @Router /api/leaderboard/subjects/{id} [get]
func (c *LeaderboardController) Subject(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	result, err := c.LeaderboardService.Subject(id, currentUserID(ctx), limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// RebuildCache godoc
// @Summary 重建排行缓存
// @Description 管理端全量重建物化排行缓存
// @Tags 排行榜
// @Produce  json
// @Success 200 {object} util.Response "重建结果"
// @Failure 403 {object} util.Response "需要管理员权限"
// @Security BearerAuth
// @Router /api/leaderboard/cache/update [post]
func (c *LeaderboardController) RebuildCache(ctx *gin.Context) {
	entries, err := c.LeaderboardService.RebuildCache(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"entries": entries})
}

// CachedTop godoc
// @Summary 物化排行
// @Description 读取上次重建的物化排行缓存
// @Tags 排行榜
// @Produce  json
// @Param   limit query int false "每页条数" default(50)
// @Param   offset query int false "偏移量" default(0)
// @Success 200 {object} util.Response{data=[]model.LeaderboardCache} "缓存排行"
// @Security BearerAuth
// @Router /api/leaderboard/cache [get]
func (c *LeaderboardController) CachedTop(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	entries, err := c.LeaderboardService.CachedTop(limit, offset)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
