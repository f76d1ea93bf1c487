package controllers

import (
	"strconv"

	"HealthifyGo/models"
	"HealthifyGo/services"

	"github.com/gin-gonic/gin"
)

// AdminController 用户管理、报告批注、系统设置和操作日志
type AdminController struct {
	users     *services.UserService
	reports   *services.ReportService
	activity  *services.ActivityService
	settings  *services.SettingService
	dashboard *services.DashboardService
}

func NewAdminController(svc *services.Services) *AdminController {
	return &AdminController{
		users:     svc.Users,
		reports:   svc.Reports,
		activity:  svc.Activity,
		settings:  svc.Settings,
		dashboard: svc.Dashboard,
	}
}

func (ac *AdminController) Dashboard(c *gin.Context) {
	overview, err := ac.dashboard.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", overview)
}

// CreateUser POST /admin/users
func (ac *AdminController) CreateUser(c *gin.Context) {
	var req models.AdminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "用户名和密码不能为空")
		return
	}
	user, err := ac.users.AdminCreate(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "用户已创建", models.NewUserResponse(user))
}

func (ac *AdminController) ListUsers(c *gin.Context) {
	page, perPage := pageParams(c)
	users, p, err := ac.users.List(c.Request.Context(), c.Query("keyword"), page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	items := make([]models.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, models.NewUserResponse(&users[i]))
	}
	respondPaged(c, items, p)
}

func (ac *AdminController) GetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, err := ac.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", models.NewUserResponse(user))
}

func (ac *AdminController) UpdateUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "请求格式错误")
		return
	}
	user, err := ac.users.AdminUpdate(c.Request.Context(), currentUserID(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "用户已更新", models.NewUserResponse(user))
}

func (ac *AdminController) DeleteUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := ac.users.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "用户已删除", nil)
}

// UserReport GET /admin/users/:id/report 用户最新报告
func (ac *AdminController) UserReport(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, err := ac.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	report, err := ac.reports.Latest(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", models.UserReportResponse{
		ReportID:            report.ID,
		UserID:              user.ID,
		UserName:            user.GetDisplayName(),
		GeneratedAt:         report.PublishedAt,
		ReportData:          report.ReportData,
		AdminSummary:        report.AdminSummary,
		AdminRecommendation: report.AdminAdvice,
	})
}

// Recommendation POST /admin/users/:id/recommendation
func (ac *AdminController) Recommendation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Recommendation == nil {
		badRequest(c, "recommendation 不能为空")
		return
	}
	report, err := ac.reports.SubmitAdminAdvice(c.Request.Context(), id, currentUserID(c), *req.Recommendation)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "建议已保存", report)
}

// UpdateReport PUT /admin/reports/:id
func (ac *AdminController) UpdateReport(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.UpdateReportTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "请求格式错误")
		return
	}
	report, err := ac.reports.UpdateAdminText(c.Request.Context(), id, currentUserID(c), req.AdminSummary, req.AdminAdvice)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "报告已更新", report)
}

// ActivityLogs GET /admin/activity-logs?user_id=&action=
func (ac *AdminController) ActivityLogs(c *gin.Context) {
	var userID uint
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			badRequest(c, "无效的user_id")
			return
		}
		userID = uint(id)
	}
	page, perPage := pageParams(c)
	logs, p, err := ac.activity.List(c.Request.Context(), userID, c.Query("action"), page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPaged(c, logs, p)
}

func (ac *AdminController) ListSettings(c *gin.Context) {
	settings, err := ac.settings.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", settings)
}

func (ac *AdminController) CreateSetting(c *gin.Context) {
	var req models.SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "请求格式错误")
		return
	}
	setting, err := ac.settings.Create(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "设置已创建", setting)
}

func (ac *AdminController) UpdateSetting(c *gin.Context) {
	var req models.SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "请求格式错误")
		return
	}
	setting, err := ac.settings.Update(c.Request.Context(), currentUserID(c), c.Param("key"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "设置已更新", setting)
}

func (ac *AdminController) DeleteSetting(c *gin.Context) {
	if err := ac.settings.Delete(c.Request.Context(), currentUserID(c), c.Param("key")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "设置已删除", nil)
}
