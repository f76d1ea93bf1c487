package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"HealthifyGo/config"
	"HealthifyGo/middleware"
	"HealthifyGo/models"
	"HealthifyGo/services"

	"github.com/gin-gonic/gin"
)

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, models.Response{Success: true, Message: message, Data: data})
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, models.Response{Success: true, Message: message, Data: data})
}

func respondPaged(c *gin.Context, items interface{}, p models.Pagination) {
	respondOK(c, "", models.PagedData{Items: items, Pagination: p})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: message})
}

// respondError 把服务层的错误类型映射为 HTTP 状态码。未知错误只记录日志，不返回细节。
func respondError(c *gin.Context, err error) {
	var (
		validation   *services.ValidationError
		insufficient *services.InsufficientDataError
		auth         *services.AuthenticationError
		permission   *services.PermissionError
		notFound     *services.NotFoundError
		conflict     *services.ConflictError
		unavailable  *services.UnavailableError
	)

	status := http.StatusInternalServerError
	message := "服务器内部错误"
	switch {
	case errors.As(err, &validation):
		status, message = http.StatusBadRequest, validation.Error()
	case errors.As(err, &insufficient):
		status, message = http.StatusBadRequest, insufficient.Error()
	case errors.As(err, &auth):
		status, message = http.StatusUnauthorized, auth.Error()
	case errors.As(err, &permission):
		status, message = http.StatusForbidden, permission.Error()
	case errors.As(err, &notFound):
		status, message = http.StatusNotFound, notFound.Error()
	case errors.As(err, &conflict):
		status, message = http.StatusConflict, conflict.Error()
	case errors.As(err, &unavailable):
		status, message = http.StatusServiceUnavailable, unavailable.Error()
	default:
		config.Logger.Errorw("请求处理失败",
			"error", err,
			"path", c.Request.URL.Path,
			"requestID", c.GetString("requestID"),
		)
		_ = c.Error(err)
	}
	c.JSON(status, models.Response{Success: false, Message: message})
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint(middleware.ContextUserID)
}

func currentRequester(c *gin.Context) services.Requester {
	return services.Requester{UserID: currentUserID(c), Role: c.GetString(middleware.ContextRole)}
}

// idParam 解析路径中的正整数 ID
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "无效的"+name)
		return 0, false
	}
	return uint(id), true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(models.DefaultPerPage)))
	return page, perPage
}
