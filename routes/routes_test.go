package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"HealthifyGo/config"
	"HealthifyGo/middleware"
	"HealthifyGo/services"
	"HealthifyGo/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t   *testing.T
	r   *gin.Engine
	svc *services.Services
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitJWT("routes-test-secret", time.Hour)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.MigrateDB(db))

	svc := services.New(db, nil, config.DefaultScoring(), nil)
	r := gin.New()
	middleware.SetupMiddleware(r)
	RegisterRoutes(r, svc, "metrics-token")
	return &testServer{t: t, r: r, svc: svc}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (s *testServer) login(username, password string) string {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": username, "password": password})
	require.Equal(s.t, http.StatusOK, code, env.Message)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &resp))
	return resp.Token
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(utils.RequestIDHeader))
}

func TestReportAndAdviceFlow(t *testing.T) {
	s := newTestServer(t)
	_, err := s.svc.Users.CreateAdmin(context.Background(), "admin", "adminpass", nil)
	require.NoError(t, err)

	code, env := s.do(http.MethodPost, "/api/auth/register", "", gin.H{"username": "alice", "password": "secret123"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	code, _ = s.do(http.MethodPost, "/api/auth/register", "", gin.H{"username": "alice", "password": "secret123"})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "alice", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, code)

	alice := s.login("alice", "secret123")
	admin := s.login("admin", "adminpass")

	// 没有记录时生成报告返回 400
	code, env = s.do(http.MethodPost, "/api/reports/generate", alice, gin.H{"type": "week"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)

	code, env = s.do(http.MethodPost, "/api/records", alice, gin.H{"type": "mood", "mood_type": "happy"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	code, _ = s.do(http.MethodPost, "/api/records", alice, gin.H{"type": "food", "food_name": "rice", "meal_time": "lunch"})
	require.Equal(t, http.StatusCreated, code)
	code, _ = s.do(http.MethodPost, "/api/records", alice, gin.H{"type": "food", "food_name": "rice", "meal_time": "brunch"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(http.MethodGet, "/api/reports/summary?days=7", alice, nil)
	require.Equal(t, http.StatusOK, code)
	var summary struct {
		RecordCount int    `json:"recordCount"`
		TopMood     string `json:"topMood"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 2, summary.RecordCount)
	assert.Equal(t, "开心", summary.TopMood)

	code, env = s.do(http.MethodGet, "/api/reports/data?period=month", alice, nil)
	require.Equal(t, http.StatusOK, code)
	var data struct {
		FoodRecords []struct {
			FoodName string `json:"food_name"`
		} `json:"foodRecords"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.FoodRecords, 1)

	code, env = s.do(http.MethodPost, "/api/reports/generate", alice, gin.H{"type": "week"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var generated struct {
		Report struct {
			ID uint `json:"id"`
		} `json:"report"`
		Recommendations []string `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &generated))
	assert.NotEmpty(t, generated.Recommendations)
	reportPath := fmt.Sprintf("/api/reports/%d", generated.Report.ID)

	code, _ = s.do(http.MethodGet, reportPath, alice, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodGet, reportPath, admin, nil)
	assert.Equal(t, http.StatusOK, code)

	// 普通用户不能访问管理员接口
	code, _ = s.do(http.MethodGet, "/api/admin/advice-requests", alice, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(http.MethodPost, "/api/advice-requests", alice, gin.H{"request_text": "怎么提高睡眠质量"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var submitted struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &submitted))

	code, env = s.do(http.MethodGet, "/api/admin/advice-requests?status=pending", admin, nil)
	require.Equal(t, http.StatusOK, code)
	var pending struct {
		Items []struct {
			ID                uint   `json:"id"`
			RequesterUsername string `json:"requester_username"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &pending))
	require.Len(t, pending.Items, 1)
	assert.Equal(t, "alice", pending.Items[0].RequesterUsername)

	respondPath := fmt.Sprintf("/api/admin/advice-requests/%d/respond", submitted.ID)
	code, _ = s.do(http.MethodPost, respondPath, admin, gin.H{"response_text": "  "})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = s.do(http.MethodPost, respondPath, admin, gin.H{"response_text": "睡前泡脚"})
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodPost, respondPath, admin, gin.H{"response_text": "再说一次"})
	assert.Equal(t, http.StatusConflict, code)
	code, _ = s.do(http.MethodPost, "/api/admin/advice-requests/999/respond", admin, gin.H{"response_text": "x"})
	assert.Equal(t, http.StatusNotFound, code)

	// AI 未配置
	code, _ = s.do(http.MethodPost, fmt.Sprintf("/api/admin/advice-requests/%d/draft", submitted.ID), admin, nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)

	aliceUser, err := s.svc.Users.Authenticate(context.Background(), "alice", "secret123")
	require.NoError(t, err)
	recPath := fmt.Sprintf("/api/admin/users/%d/recommendation", aliceUser.ID)
	code, _ = s.do(http.MethodPost, recPath, admin, gin.H{"recommendation": "坚持运动"})
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodPost, "/api/admin/users/999/recommendation", admin, gin.H{"recommendation": "坚持运动"})
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(http.MethodGet, fmt.Sprintf("/api/admin/users/%d/report", aliceUser.ID), admin, nil)
	require.Equal(t, http.StatusOK, code)
	var latest struct {
		AdminRecommendation string `json:"admin_recommendation"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &latest))
	assert.Equal(t, "坚持运动", latest.AdminRecommendation)
}

func TestExportReturnsSpreadsheet(t *testing.T) {
	s := newTestServer(t)
	code, _ := s.do(http.MethodPost, "/api/auth/register", "", gin.H{"username": "alice", "password": "secret123"})
	require.Equal(t, http.StatusCreated, code)
	token := s.login("alice", "secret123")
	code, _ = s.do(http.MethodPost, "/api/records", token, gin.H{"type": "exercise", "exercise_type": "run", "duration": 30})
	require.Equal(t, http.StatusCreated, code)
	code, env := s.do(http.MethodPost, "/api/reports/generate", token, nil)
	require.Equal(t, http.StatusCreated, code, env.Message)
	var generated struct {
		Report struct {
			ID uint `json:"id"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &generated))

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/reports/%d/export", generated.Report.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "report_")
	assert.Equal(t, "PK", w.Body.String()[:2])
}

func TestInternalMetricsRequiresToken(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/internal/metrics", nil)
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/internal/metrics", nil)
	req.Header.Set("X-Internal-Auth", "metrics-token")
	w = httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthify_http_requests_total")
}

func TestChangedAccountsLoseAccessWithOldTokens(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	_, err := s.svc.Users.CreateAdmin(ctx, "root", "rootpass", nil)
	require.NoError(t, err)
	former, err := s.svc.Users.CreateAdmin(ctx, "former", "formerpass", nil)
	require.NoError(t, err)
	code, _ := s.do(http.MethodPost, "/api/auth/register", "", gin.H{"username": "alice", "password": "secret123"})
	require.Equal(t, http.StatusCreated, code)

	root := s.login("root", "rootpass")
	formerToken := s.login("former", "formerpass")
	alice := s.login("alice", "secret123")

	code, _ = s.do(http.MethodPost, "/api/records", alice, gin.H{"type": "mood", "mood_type": "happy"})
	require.Equal(t, http.StatusCreated, code)
	code, env := s.do(http.MethodPost, "/api/reports/generate", alice, nil)
	require.Equal(t, http.StatusCreated, code, env.Message)
	var generated struct {
		Report struct {
			ID     uint `json:"id"`
			UserID uint `json:"user_id"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &generated))
	reportPath := fmt.Sprintf("/api/reports/%d", generated.Report.ID)

	code, _ = s.do(http.MethodGet, reportPath, formerToken, nil)
	require.Equal(t, http.StatusOK, code)

	// 降级后旧令牌里的 admin 角色不再生效
	code, _ = s.do(http.MethodPut, fmt.Sprintf("/api/admin/users/%d", former.ID), root, gin.H{"role": "user"})
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodGet, reportPath, formerToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodDelete, reportPath, formerToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodGet, reportPath, alice, nil)
	assert.Equal(t, http.StatusOK, code)

	// 停用后旧令牌直接失效
	code, _ = s.do(http.MethodPut, fmt.Sprintf("/api/admin/users/%d", generated.Report.UserID), root, gin.H{"is_active": false})
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodGet, "/api/user/profile", alice, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = s.do(http.MethodGet, reportPath, alice, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRecordEditingAndAdminTools(t *testing.T) {
	s := newTestServer(t)
	_, err := s.svc.Users.CreateAdmin(context.Background(), "admin", "adminpass", nil)
	require.NoError(t, err)
	admin := s.login("admin", "adminpass")

	code, env := s.do(http.MethodPost, "/api/admin/users", admin, gin.H{"username": "alice", "password": "secret123"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	alice := s.login("alice", "secret123")

	code, env = s.do(http.MethodPost, "/api/records", alice, gin.H{"type": "exercise", "exercise_type": "run", "duration": 20})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	recordPath := fmt.Sprintf("/api/records/%d", created.ID)
	code, env = s.do(http.MethodPut, recordPath, alice, gin.H{"duration": 50, "intensity": "high"})
	require.Equal(t, http.StatusOK, code, env.Message)
	code, _ = s.do(http.MethodPut, recordPath, alice, gin.H{"intensity": "extreme"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(http.MethodGet, "/api/records/stats?days=7", alice, nil)
	require.Equal(t, http.StatusOK, code)
	var stats struct {
		ExerciseMinutes int `json:"exercise_minutes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 50, stats.ExerciseMinutes)

	code, env = s.do(http.MethodGet, "/api/reports/trends?period=week", alice, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	code, _ = s.do(http.MethodGet, "/api/reports/trends?period=decade", alice, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	today := time.Now().Format("2006-01-02")
	code, env = s.do(http.MethodGet, "/api/reports/summary?start_date="+today+"&end_date="+today, alice, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	var summary struct {
		ExerciseMinutes int `json:"exerciseMinutes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 50, summary.ExerciseMinutes)
	code, _ = s.do(http.MethodGet, "/api/reports/summary?start_date="+today, alice, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPost, "/api/auth/password", alice, gin.H{"old_password": "nope", "new_password": "another123"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = s.do(http.MethodPost, "/api/auth/password", alice, gin.H{"old_password": "secret123", "new_password": "another123"})
	assert.Equal(t, http.StatusOK, code)
	s.login("alice", "another123")

	code, _ = s.do(http.MethodPost, "/api/admin/settings", admin, gin.H{"key": "theme", "value": "light"})
	assert.Equal(t, http.StatusCreated, code)
	code, _ = s.do(http.MethodPost, "/api/admin/settings", admin, gin.H{"key": "theme", "value": "dark"})
	assert.Equal(t, http.StatusConflict, code)
	code, _ = s.do(http.MethodPut, "/api/admin/settings/theme", admin, gin.H{"value": "dark"})
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodGet, "/api/admin/settings", alice, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodDelete, "/api/admin/settings/theme", admin, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = s.do(http.MethodGet, "/api/admin/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, code)
	var dashboard struct {
		UserStats struct {
			Total int `json:"total"`
		} `json:"user_stats"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dashboard))
	assert.Equal(t, 2, dashboard.UserStats.Total)
}
