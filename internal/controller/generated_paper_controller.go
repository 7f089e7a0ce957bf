package controller

import (
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GeneratedPaperController struct {
	GeneratedPaperService *service.GeneratedPaperService
}

func NewGeneratedPaperController(s *service.GeneratedPaperService) *GeneratedPaperController {
	return &GeneratedPaperController{GeneratedPaperService: s}
}

// ListDrafts godoc
// @Summary 我的草稿列表
// @Description 当前教师创建的草稿，最新的在前
// @Tags 试卷
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.GeneratedPaper}
// @Failure 401 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/generated-papers [get]
func (c *GeneratedPaperController) ListDrafts(ctx *gin.Context) {
	drafts, err := c.GeneratedPaperService.List(ctx.Request.Context(), util.GetUserFromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, drafts)
}

// GetDraft godoc
// @Summary 草稿详情
// @Description 只能查看自己创建的草稿
// @Tags 试卷
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "草稿ID"
// @Success 200 {object} util.Response{data=model.GeneratedPaper}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/generated-papers/{id} [get]
func (c *GeneratedPaperController) GetDraft(ctx *gin.Context) {
	draft, err := c.GeneratedPaperService.Get(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, draft)
}

// CreateDraft godoc
// @Summary 保存草稿
// @Description 保存外部出题服务生成的草稿，仅限已审核教师
// @Tags 试卷
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.DraftCreateRequest true "草稿内容"
// @Success 201 {object} util.Response{data=model.GeneratedPaper}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/generated-papers [post]
func (c *GeneratedPaperController) CreateDraft(ctx *gin.Context) {
	var req service.DraftCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	draft, err := c.GeneratedPaperService.CreateDraft(ctx.Request.Context(), util.GetUserFromContext(ctx), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, draft)
}

// PublishDraft godoc
// @Summary 发布草稿
// @Description 以请求体内容创建正式试卷并将草稿标记为已发布。请求体在归属校验之后才解析。
// @Tags 试卷
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "草稿ID"
// @Param body body service.PaperCreateRequest true "最终试卷内容"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "字段缺失或类型错误"
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "草稿已发布"
// @Failure 500 {object} util.Response "试卷已创建但草稿状态未更新"
// @Router /api/generated-papers/{id}/publish [post]
func (c *GeneratedPaperController) PublishDraft(ctx *gin.Context) {
	body, err := ctx.GetRawData()
	if err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}

	paper, err := c.GeneratedPaperService.Publish(ctx.Request.Context(), ctx.Param("id"), body, util.GetUserFromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"message":  "Paper published successfully",
		"paper_id": paper.ID,
	})
}
