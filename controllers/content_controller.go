package controllers

import (
	"HealthifyGo/models"
	"HealthifyGo/services"

	"github.com/gin-gonic/gin"
)

// ContentController 食物库、公告和手动建议
type ContentController struct {
	foods         *services.FoodService
	announcements *services.AnnouncementService
	suggestions   *services.SuggestionService
}

func NewContentController(foods *services.FoodService, announcements *services.AnnouncementService, suggestions *services.SuggestionService) *ContentController {
	return &ContentController{foods: foods, announcements: announcements, suggestions: suggestions}
}

func (cc *ContentController) ListFoods(c *gin.Context) {
	foods, err := cc.foods.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", foods)
}

func (cc *ContentController) CreateFood(c *gin.Context) {
	var req models.FoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "食物名称和类别不能为空")
		return
	}
	food, err := cc.foods.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "食物已添加", food)
}

func (cc *ContentController) UpdateFood(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.FoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "食物名称和类别不能为空")
		return
	}
	food, err := cc.foods.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "食物已更新", food)
}

func (cc *ContentController) DeleteFood(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := cc.foods.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "食物已删除", nil)
}

// ListAnnouncements 普通用户只能看到启用的公告
func (cc *ContentController) ListAnnouncements(c *gin.Context) {
	items, err := cc.announcements.List(c.Request.Context(), !currentRequester(c).IsAdmin())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", items)
}

func (cc *ContentController) CreateAnnouncement(c *gin.Context) {
	var req models.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "公告标题不能为空")
		return
	}
	item, err := cc.announcements.Create(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "公告已发布", item)
}

func (cc *ContentController) UpdateAnnouncement(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "公告标题不能为空")
		return
	}
	item, err := cc.announcements.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "公告已更新", item)
}

func (cc *ContentController) DeleteAnnouncement(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := cc.announcements.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "公告已删除", nil)
}

// ListSuggestions 用户只能查看自己的建议，管理员可以查看任何人的
func (cc *ContentController) ListSuggestions(c *gin.Context) {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}
	requester := currentRequester(c)
	if userID != requester.UserID && !requester.IsAdmin() {
		respondError(c, &services.PermissionError{Message: "无权查看该用户的建议"})
		return
	}
	items, err := cc.suggestions.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", items)
}

func (cc *ContentController) AddSuggestion(c *gin.Context) {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}
	var req models.ManualSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "建议内容不能为空")
		return
	}
	item, err := cc.suggestions.Add(c.Request.Context(), userID, currentUserID(c), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "建议已添加", item)
}

func (cc *ContentController) DeleteSuggestion(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := cc.suggestions.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "建议已删除", nil)
}
