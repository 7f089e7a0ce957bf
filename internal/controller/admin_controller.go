package controller

import (
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	AdminService *service.AdminService
}

func NewAdminController(adminService *service.AdminService) *AdminController {
	return &AdminController{AdminService: adminService}
}

// PendingTeachers godoc
// @Summary 待审核教师列表
// @Description 按注册时间升序，仅限管理员
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.User}
// @Failure 401 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/admin/pending-teachers [get]
func (c *AdminController) PendingTeachers(ctx *gin.Context) {
	users, err := c.AdminService.PendingTeachers(ctx.Request.Context(), util.GetUserFromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// ApproveTeacher godoc
// @Summary 审核或撤销教师
// @Description 更新教师审核状态并通知该教师
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ApproveTeacherRequest true "审核结果"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response "教师不存在"
// @Router /api/admin/approve-teacher [post]
func (c *AdminController) ApproveTeacher(ctx *gin.Context) {
	var req service.ApproveTeacherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	user, err := c.AdminService.SetTeacherApproval(ctx.Request.Context(), util.GetUserFromContext(ctx), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}
