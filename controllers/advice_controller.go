package controllers

import (
	"HealthifyGo/models"
	"HealthifyGo/services"

	"github.com/gin-gonic/gin"
)

type AdviceController struct {
	advice  *services.AdviceService
	drafter *services.AdviceDrafter
}

func NewAdviceController(advice *services.AdviceService, drafter *services.AdviceDrafter) *AdviceController {
	return &AdviceController{advice: advice, drafter: drafter}
}

// Submit POST /advice-requests
func (ac *AdviceController) Submit(c *gin.Context) {
	var req models.SubmitAdviceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "请求格式错误")
			return
		}
	}

	created, err := ac.advice.Submit(c.Request.Context(), currentUserID(c), req.RequestText)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "建议请求已提交", created)
}

// ListMine GET /advice-requests
func (ac *AdviceController) ListMine(c *gin.Context) {
	page, perPage := pageParams(c)
	items, p, err := ac.advice.ListMine(c.Request.Context(), currentUserID(c), page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPaged(c, items, p)
}

// List GET /admin/advice-requests?status=
func (ac *AdviceController) List(c *gin.Context) {
	page, perPage := pageParams(c)
	items, p, err := ac.advice.List(c.Request.Context(), c.DefaultQuery("status", "pending"), page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPaged(c, items, p)
}

// Respond POST /admin/advice-requests/:id/respond
func (ac *AdviceController) Respond(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.RespondAdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "回复内容不能为空")
		return
	}

	answered, err := ac.advice.Respond(c.Request.Context(), id, currentUserID(c), req.ResponseText)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "回复成功", answered)
}

// Draft POST /admin/advice-requests/:id/draft
func (ac *AdviceController) Draft(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	draft, err := ac.drafter.Draft(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", models.DraftResponse{RequestID: id, Draft: draft})
}
