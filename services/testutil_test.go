package services

import (
	"context"
	"testing"

	"HealthifyGo/config"
	"HealthifyGo/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的内存数据库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库只存在于单个连接上
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.MigrateDB(db))
	return db
}

func newTestServices(t *testing.T) (*gorm.DB, *Services) {
	db := newTestDB(t)
	return db, New(db, nil, config.DefaultScoring(), nil)
}

func createUser(t *testing.T, svc *Services, username string) *models.User {
	t.Helper()
	user, err := svc.Users.Register(context.Background(), &models.RegisterRequest{Username: username, Password: "secret123"})
	require.NoError(t, err)
	return user
}

func createAdmin(t *testing.T, svc *Services, username string) *models.User {
	t.Helper()
	user, err := svc.Users.CreateAdmin(context.Background(), username, "secret123", nil)
	require.NoError(t, err)
	return user
}

func addRecord(t *testing.T, svc *Services, userID uint, req models.CreateRecordRequest) *models.RecordRow {
	t.Helper()
	row, err := svc.Records.Create(context.Background(), userID, &req)
	require.NoError(t, err)
	return row
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }
