package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"HealthifyGo/models"
	"HealthifyGo/services"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{reports: reports}
}

// Summary GET /reports/summary?days=N 或 ?start_date=&end_date=
func (rc *ReportController) Summary(c *gin.Context) {
	start, end := c.Query("start_date"), c.Query("end_date")
	if start != "" || end != "" {
		if start == "" || end == "" {
			badRequest(c, "start_date 和 end_date 需要同时提供")
			return
		}
		summary, err := rc.reports.RangeSummary(c.Request.Context(), currentUserID(c), start, end)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "", summary)
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil {
		badRequest(c, "无效的天数")
		return
	}
	summary, err := rc.reports.Summary(c.Request.Context(), currentUserID(c), days)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", summary)
}

// Data GET /reports/data?period=week
func (rc *ReportController) Data(c *gin.Context) {
	data, err := rc.reports.Data(c.Request.Context(), currentUserID(c), c.DefaultQuery("period", "week"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", data)
}

// Trends GET /reports/trends?period=month
func (rc *ReportController) Trends(c *gin.Context) {
	trends, err := rc.reports.Trends(c.Request.Context(), currentUserID(c), c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", trends)
}

func (rc *ReportController) Generate(c *gin.Context) {
	var req models.GenerateReportRequest
	// 请求体可以为空，默认生成周报
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "请求格式错误")
			return
		}
	}

	report, err := rc.reports.Generate(c.Request.Context(), currentUserID(c), req.Type)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "报告已生成", models.GenerateReportResponse{
		Report:          report,
		Recommendations: report.ReportData.Recommendations,
	})
}

func (rc *ReportController) List(c *gin.Context) {
	page, perPage := pageParams(c)
	reports, p, err := rc.reports.List(c.Request.Context(), currentUserID(c), page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPaged(c, reports, p)
}

func (rc *ReportController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	report, err := rc.reports.Get(c.Request.Context(), id, currentRequester(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", report)
}

func (rc *ReportController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := rc.reports.Delete(c.Request.Context(), id, currentRequester(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "报告已删除", nil)
}

// Export 下载 xlsx
func (rc *ReportController) Export(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	content, err := rc.reports.Export(c.Request.Context(), id, currentRequester(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="report_%d.xlsx"`, id))
	c.Data(http.StatusOK, xlsxContentType, content)
}
