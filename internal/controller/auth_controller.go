package controller

import (
	"educonnect_backend/internal/service"
	"educonnect_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Register godoc
// @Summary 注册新用户
// @Description 注册并自动登录，返回用户信息与令牌对
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterRequest true "注册信息"
// @Success 201 {object} util.Response{data=service.AuthResult} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱或用户名已被占用"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Register(&req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// Login godoc
// @Summary 登录
// @Description 邮箱密码登录，连续失败 5 次锁定 15 分钟
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=service.AuthResult} "登录成功"
// @Failure 401 {object} util.Response "邮箱或密码错误"
// @Failure 403 {object} util.Response "账号已锁定"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Login(&req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh godoc
// @Summary 刷新访问令牌
// @Description 刷新令牌轮换，旧令牌换发后立即失效
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RefreshRequest true "刷新令牌"
// @Success 200 {object} util.Response{data=service.TokenPair} "换发成功"
// @Failure 401 {object} util.Response "令牌无效或已过期"
// @Router /api/auth/refresh [post]
func (c *AuthController) Refresh(ctx *gin.Context) {
	var req RefreshRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	tokens, err := c.AuthService.Refresh(req.RefreshToken)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, tokens)
}

// LogoutRequest 登出请求
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout godoc
// @Summary 登出
// @Description 吊销刷新令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LogoutRequest true "刷新令牌"
// @Success 200 {object} util.Response "登出成功"
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	var req LogoutRequest
	_ = ctx.ShouldBindJSON(&req)

	if err := c.AuthService.Logout(req.RefreshToken); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "logged out", nil)
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=72"`
}

// ChangePassword godoc
// @Summary 修改密码
// @Description 修改密码并吊销该用户的全部刷新令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body ChangePasswordRequest true "新旧密码"
// @Success 200 {object} util.Response "修改成功"
// @Failure 401 {object} util.Response "当前密码错误"
// @Security BearerAuth
// @Router /api/auth/password [put]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ChangePassword(claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "password changed", nil)
}

// Me godoc
// @Summary 当前用户
// @Description 按访问令牌返回当前用户信息
// @Tags 认证
// @Produce  json
// @Success 200 {object} util.Response{data=model.User} "当前用户"
// @Failure 401 {object} util.Response "未登录"
// @Security BearerAuth
// @Router /api/auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.AuthService.CurrentUser(claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}
