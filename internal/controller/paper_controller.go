package controller

import (
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PaperController struct {
	PaperService *service.PaperService
}

func NewPaperController(paperService *service.PaperService) *PaperController {
	return &PaperController{PaperService: paperService}
}

// ListPapers godoc
// @Summary 试卷列表
// @Tags 试卷
// @Produce json
// @Param subject query string false "学科"
// @Param exam_type query string false "考试类型"
// @Param class_level query string false "年级"
// @Param year query string false "年份"
// @Success 200 {object} util.Response{data=[]model.Paper}
// @Router /api/papers [get]
func (c *PaperController) ListPapers(ctx *gin.Context) {
	filter := model.PaperFilter{
		Subject:    ctx.Query("subject"),
		ExamType:   ctx.Query("exam_type"),
		ClassLevel: ctx.Query("class_level"),
		Year:       ctx.Query("year"),
	}

	papers, err := c.PaperService.List(ctx.Request.Context(), filter)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, papers)
}

// GetPaper godoc
// @Summary 试卷详情
// @Tags 试卷
// @Produce json
// @Param id path string true "试卷ID"
// @Success 200 {object} util.Response{data=model.Paper}
// @Failure 404 {object} util.Response
// @Router /api/papers/{id} [get]
func (c *PaperController) GetPaper(ctx *gin.Context) {
	paper, err := c.PaperService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, paper)
}

// CreatePaper godoc
// @Summary 创建试卷
// @Description 仅限已审核教师
// @Tags 试卷
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.PaperCreateRequest true "试卷内容"
// @Success 201 {object} util.Response{data=model.Paper}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/papers [post]
func (c *PaperController) CreatePaper(ctx *gin.Context) {
	body, err := ctx.GetRawData()
	if err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}
	req, err := service.DecodePaperCreateRequest(body)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	paper, err := c.PaperService.Create(ctx.Request.Context(), util.GetUserFromContext(ctx), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, paper)
}
