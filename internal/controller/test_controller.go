package controller

import (
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	TestService *service.TestService
}

func NewTestController(testService *service.TestService) *TestController {
	return &TestController{TestService: testService}
}

// SubmitTest godoc
// @Summary 提交答卷
// @Description 答对 +4，答错 -1，未作答不计分
// @Tags 测试
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.Submission true "答卷"
// @Success 200 {object} util.Response{data=model.TestResult}
// @Failure 404 {object} util.Response "试卷不存在"
// @Router /api/tests/submit [post]
func (c *TestController) SubmitTest(ctx *gin.Context) {
	var req service.Submission
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	result, err := c.TestService.Submit(ctx.Request.Context(), util.GetUserFromContext(ctx), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// ListResults godoc
// @Summary 我的成绩列表
// @Description 最新的在前
// @Tags 测试
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.TestResult}
// @Router /api/tests/results [get]
func (c *TestController) ListResults(ctx *gin.Context) {
	results, err := c.TestService.ListResults(ctx.Request.Context(), util.GetUserFromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// GetResult godoc
// @Summary 成绩详情
// @Tags 测试
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "成绩ID"
// @Success 200 {object} util.Response{data=model.TestResult}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/tests/results/{id} [get]
func (c *TestController) GetResult(ctx *gin.Context) {
	result, err := c.TestService.GetResult(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
