package controller

import (
	"strconv"

	"educonnect_backend/internal/service"
	"educonnect_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService    *service.UserService
	StorageService *service.StorageService
}

func NewUserController(userService *service.UserService, storageService *service.StorageService) *UserController {
	return &UserController{UserService: userService, StorageService: storageService}
}

// Profile godoc
// @Summary 个人主页
// @Description 用户信息、聚合统计与各学科进度
// @Tags 用户
// @Produce  json
// @Success 200 {object} util.Response{data=service.Profile} "个人主页"
// @Failure 401 {object} util.Response "未登录"
// @Security BearerAuth
// @Router /api/users/profile [get]
func (c *UserController) Profile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.UserService.GetProfile(claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// UpdateProfile godoc
// @Summary 修改资料
// @Description 修改用户名或头像，进度字段不可改
// @Tags 用户
// @Accept  json
// @Produce  json
// @Param   body body service.UpdateProfileRequest true "资料修改"
// @Success 200 {object} util.Response{data=model.User} "修改后的用户"
// @Failure 409 {object} util.Response "用户名已被占用"
// @Security BearerAuth
// @Router /api/users/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// UploadAvatar godoc
// @Summary 上传头像图片
// @Description 上传 PNG/JPEG/WebP 头像并写入用户资料
// @Tags 用户
// @Accept  multipart/form-data
// @Produce  json
// @Param   avatar formData file true "头像文件"
// @Success 200 {object} util.Response{data=model.User} "修改后的用户"
// @Failure 400 {object} util.Response "文件类型或大小不合法"
// @Security BearerAuth
// @Router /api/users/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	header, err := ctx.FormFile("avatar")
	if err != nil {
		util.BadRequest(ctx, "avatar file is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	url, err := c.StorageService.UploadAvatar(ctx.Request.Context(), claims.UserID,
		file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, &service.UpdateProfileRequest{Avatar: &url})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// Achievements godoc
// @Summary 成就列表
// @Description 全部启用成就及当前用户的解锁状态
// @Tags 用户
// @Produce  json
// @Success 200 {object} util.Response{data=[]repository.AchievementWithUnlock} "成就列表"
// @Security BearerAuth
// @Router /api/users/achievements [get]
func (c *UserController) Achievements(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	achievements, err := c.UserService.ListAchievements(claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, achievements)
}

// Activity godoc
// @Summary 活动流水
// @Description 分页返回用户的活动记录，新的在前
// @Tags 用户
// @Produce  json
// @Param   limit query int false "每页条数" default(20)
// @Param   offset query int false "偏移量" default(0)
// @Success 200 {object} util.Response{data=util.PageResponse} "活动流水"
// @Security BearerAuth
// @Router /api/users/activity [get]
func (c *UserController) Activity(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	items, total, err := c.UserService.ActivityFeed(claims.UserID, limit, offset)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{
		List:  items,
		Total: total,
		Page:  offset/max(limit, 1) + 1,
		Limit: limit,
	})
}
