package controller

import (
	"edulearn_backend/internal/middleware"
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	// Cookie 有效期，与会话有效期一致
	CookieTTL time.Duration
	IsRelease bool
}

func NewAuthController(authService *service.AuthService, cookieTTL time.Duration, isRelease bool) *AuthController {
	return &AuthController{
		AuthService: authService,
		CookieTTL:   cookieTTL,
		IsRelease:   isRelease,
	}
}

// Register godoc
// @Summary 注册新用户
// @Description 学生或教师注册，教师需等待管理员审核
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterRequest true "用户注册信息"
// @Success 201 {object} util.Response{data=service.AuthResult} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	result, err := c.AuthService.Register(ctx.Request.Context(), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// Login godoc
// @Summary 邮箱密码登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=service.AuthResult}
// @Failure 401 {object} util.Response "邮箱或密码错误"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	result, err := c.AuthService.Login(ctx.Request.Context(), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// AdminLogin godoc
// @Summary 管理员登录
// @Description 使用配置中的管理员账号登录，首次登录时创建用户记录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=service.AuthResult}
// @Failure 401 {object} util.Response "邮箱或密码错误"
// @Router /api/auth/admin-login [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var req service.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	result, err := c.AuthService.AdminLogin(ctx.Request.Context(), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// SessionLogin godoc
// @Summary 外部会话登录
// @Description 校验外部会话后登录，会话令牌写入 HttpOnly Cookie
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.SessionLoginRequest true "外部会话"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 401 {object} util.Response "会话无效"
// @Router /api/auth/session [post]
func (c *AuthController) SessionLogin(ctx *gin.Context) {
	var req service.SessionLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	result, err := c.AuthService.SessionLogin(ctx.Request.Context(), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	c.setSessionCookie(ctx, result.Token, int(c.CookieTTL.Seconds()))
	util.Success(ctx, result.User)
}

// Logout godoc
// @Summary 退出登录
// @Description 删除当前会话并清除 Cookie
// @Tags 认证
// @Produce  json
// @Success 200 {object} util.Response
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	// Bearer 方式携带的会话令牌同样可以退出
	token := middleware.ExtractCredential(ctx)
	if err := c.AuthService.Logout(ctx.Request.Context(), token); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	c.setSessionCookie(ctx, "", -1)
	util.Success(ctx, gin.H{"message": "Logged out successfully"})
}

// Me godoc
// @Summary 当前用户
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User}
// @Failure 401 {object} util.Response
// @Router /api/auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, user)
}

func (c *AuthController) setSessionCookie(ctx *gin.Context, value string, maxAge int) {
	// 跨站前端需要 SameSite=None，仅在 release 模式下启用 Secure
	if c.IsRelease {
		ctx.SetSameSite(http.SameSiteNoneMode)
	} else {
		ctx.SetSameSite(http.SameSiteLaxMode)
	}
	ctx.SetCookie(util.SessionCookieName, value, maxAge, "/", "", c.IsRelease, true)
}
