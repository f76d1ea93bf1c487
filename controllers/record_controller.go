package controllers

import (
	"strconv"

	"HealthifyGo/models"
	"HealthifyGo/services"

	"github.com/gin-gonic/gin"
)

type RecordController struct {
	records *services.RecordService
}

func NewRecordController(records *services.RecordService) *RecordController {
	return &RecordController{records: records}
}

func (rc *RecordController) Create(c *gin.Context) {
	var req models.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "记录类型不能为空")
		return
	}

	row, err := rc.records.Create(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "记录已保存", row)
}

func (rc *RecordController) List(c *gin.Context) {
	page, perPage := pageParams(c)
	rows, p, err := rc.records.List(c.Request.Context(), currentUserID(c), services.RecordFilter{
		Kind:      models.RecordKind(c.Query("type")),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Page:      page,
		PerPage:   perPage,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondPaged(c, rows, p)
}

func (rc *RecordController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	row, err := rc.records.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", row)
}

func (rc *RecordController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := rc.records.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "记录已删除", nil)
}

// Update PUT /records/:id
func (rc *RecordController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "请求格式错误")
		return
	}
	row, err := rc.records.Update(c.Request.Context(), currentUserID(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "记录已更新", row)
}

// Stats GET /records/stats?days=30
func (rc *RecordController) Stats(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil {
		badRequest(c, "无效的天数")
		return
	}
	stats, err := rc.records.Stats(c.Request.Context(), currentUserID(c), days)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", stats)
}
