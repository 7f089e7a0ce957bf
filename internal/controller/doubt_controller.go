package controller

import (
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DoubtController struct {
	DoubtService *service.DoubtService
}

func NewDoubtController(doubtService *service.DoubtService) *DoubtController {
	return &DoubtController{DoubtService: doubtService}
}

// CreateDoubt godoc
// @Summary 提交答疑
// @Tags 答疑
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.DoubtCreateRequest true "问题内容"
// @Success 201 {object} util.Response{data=model.Doubt}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/doubts [post]
func (c *DoubtController) CreateDoubt(ctx *gin.Context) {
	var req service.DoubtCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	doubt, err := c.DoubtService.Create(ctx.Request.Context(), util.GetUserFromContext(ctx), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, doubt)
}

// ListDoubts godoc
// @Summary 答疑列表
// @Description 学生只能看到自己的问题，可按 status 过滤（pending/answered）
// @Tags 答疑
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "状态"
// @Success 200 {object} util.Response{data=[]model.Doubt}
// @Failure 400 {object} util.Response
// @Router /api/doubts [get]
func (c *DoubtController) ListDoubts(ctx *gin.Context) {
	doubts, err := c.DoubtService.List(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Query("status"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, doubts)
}

// AnswerDoubt godoc
// @Summary 回答答疑
// @Description 仅限已审核教师，回答后通知提问学生
// @Tags 答疑
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "答疑ID"
// @Param body body service.DoubtAnswerRequest true "回答内容"
// @Success 200 {object} util.Response{data=model.Doubt}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/doubts/{id}/answer [put]
func (c *DoubtController) AnswerDoubt(ctx *gin.Context) {
	var req service.DoubtAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	doubt, err := c.DoubtService.Answer(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, doubt)
}
