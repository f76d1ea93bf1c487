package services

import (
	"context"
	"testing"
	"time"

	"HealthifyGo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOnEmptyWindowWritesNothing(t *testing.T) {
	db, svc := newTestServices(t)
	user := createUser(t, svc, "alice")

	report, err := svc.Reports.Generate(context.Background(), user.ID, "week")
	assert.Nil(t, report)
	var insufficient *InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "week", insufficient.Period)
	assert.Equal(t, int64(0), countRows(t, db, &models.Report{}))
}

func TestGenerateRejectsUnknownPeriod(t *testing.T) {
	_, svc := newTestServices(t)
	user := createUser(t, svc, "alice")

	_, err := svc.Reports.Generate(context.Background(), user.ID, "fortnight")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestGenerateReportDataRoundTrips(t *testing.T) {
	db, svc := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, svc, "alice")

	addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindMood, MoodType: "happy"})
	addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindFood, FoodName: "rice", MealTime: "lunch"})
	addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindExercise, ExerciseType: "run", Duration: intPtr(30), Intensity: "high"})
	addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindBodyStatus, Feeling: "good", Status: []string{"cough"}})

	report, err := svc.Reports.Generate(ctx, user.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "week", report.ReportType)
	assert.Equal(t, 4, report.ReportData.RecordCount)
	assert.Empty(t, report.AdminAdvice)
	assert.Empty(t, report.AdminSummary)
	assert.Equal(t, int64(1), countRows(t, db, &models.Report{}))

	stored, err := svc.Reports.Get(ctx, report.ID, Requester{UserID: user.ID, Role: models.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, report.ReportData, stored.ReportData)
}

func TestGetReportPermission(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	owner := createUser(t, svc, "alice")
	other := createUser(t, svc, "bob")
	admin := createAdmin(t, svc, "admin")
	addRecord(t, svc, owner.ID, models.CreateRecordRequest{Type: models.KindMood, MoodType: "calm"})

	report, err := svc.Reports.Generate(ctx, owner.ID, "week")
	require.NoError(t, err)

	_, err = svc.Reports.Get(ctx, report.ID, Requester{UserID: other.ID, Role: models.RoleUser})
	var pe *PermissionError
	assert.ErrorAs(t, err, &pe)

	got, err := svc.Reports.Get(ctx, report.ID, Requester{UserID: admin.ID, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, report.ID, got.ID)

	_, err = svc.Reports.Get(ctx, report.ID+100, Requester{UserID: owner.ID})
	assert.True(t, IsNotFound(err))

	err = svc.Reports.Delete(ctx, report.ID, Requester{UserID: other.ID, Role: models.RoleUser})
	assert.ErrorAs(t, err, &pe)
	require.NoError(t, svc.Reports.Delete(ctx, report.ID, Requester{UserID: owner.ID, Role: models.RoleUser}))
}

func TestSubmitAdminAdviceTargetsLatestReport(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, svc, "alice")
	admin := createAdmin(t, svc, "admin")

	_, err := svc.Reports.SubmitAdminAdvice(ctx, user.ID, admin.ID, "多喝水")
	assert.True(t, IsNotFound(err))

	addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindMood, MoodType: "sad"})
	first, err := svc.Reports.Generate(ctx, user.ID, "week")
	require.NoError(t, err)
	second, err := svc.Reports.Generate(ctx, user.ID, "month")
	require.NoError(t, err)

	updated, err := svc.Reports.SubmitAdminAdvice(ctx, user.ID, admin.ID, "多喝水")
	require.NoError(t, err)
	assert.Equal(t, second.ID, updated.ID)

	requester := Requester{UserID: user.ID, Role: models.RoleUser}
	latest, err := svc.Reports.Get(ctx, second.ID, requester)
	require.NoError(t, err)
	assert.Equal(t, "多喝水", latest.AdminAdvice)
	require.NotNil(t, latest.AdminID)
	assert.Equal(t, admin.ID, *latest.AdminID)
	assert.Equal(t, second.ReportData, latest.ReportData)

	older, err := svc.Reports.Get(ctx, first.ID, requester)
	require.NoError(t, err)
	assert.Empty(t, older.AdminAdvice)
}

func TestUpdateAdminText(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, svc, "alice")
	admin := createAdmin(t, svc, "admin")
	addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindMood, MoodType: "sad"})
	report, err := svc.Reports.Generate(ctx, user.ID, "week")
	require.NoError(t, err)

	_, err = svc.Reports.UpdateAdminText(ctx, report.ID, admin.ID, nil, nil)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	updated, err := svc.Reports.UpdateAdminText(ctx, report.ID, admin.ID, strPtr(" 整体不错 "), nil)
	require.NoError(t, err)
	assert.Equal(t, "整体不错", updated.AdminSummary)
	assert.Empty(t, updated.AdminAdvice)

	_, err = svc.Reports.UpdateAdminText(ctx, report.ID+10, admin.ID, strPtr("x"), nil)
	assert.True(t, IsNotFound(err))
}

func TestReportDataIncludesFoodRecords(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, svc, "alice")
	addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindFood, FoodName: "noodles", MealTime: "dinner"})
	addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindMood, MoodType: "calm"})

	data, err := svc.Reports.Data(ctx, user.ID, "month")
	require.NoError(t, err)
	assert.Equal(t, "month", data.Period)
	require.Len(t, data.FoodRecords, 1)
	assert.Equal(t, "noodles", data.FoodRecords[0].FoodName)
	assert.Equal(t, models.DayKey(models.CalendarDay(time.Now())), data.FoodRecords[0].RecordDate)
	assert.Equal(t, 2, data.RecordCount)

	summary, err := svc.Reports.Summary(ctx, user.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.RecordCount)
	assert.Equal(t, 100, summary.MealDistribution.Dinner)
}

func TestReportListIsNewestFirst(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, svc, "alice")
	addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindMood, MoodType: "calm"})
	first, err := svc.Reports.Generate(ctx, user.ID, "week")
	require.NoError(t, err)
	second, err := svc.Reports.Generate(ctx, user.ID, "year")
	require.NoError(t, err)

	reports, p, err := svc.Reports.List(ctx, user.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, second.ID, reports[0].ID)
	assert.Equal(t, first.ID, reports[1].ID)
	assert.Equal(t, int64(2), p.TotalItems)
}

func TestExportProducesWorkbook(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, svc, "alice")
	addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindExercise, ExerciseType: "run", Duration: intPtr(40)})
	report, err := svc.Reports.Generate(ctx, user.ID, "week")
	require.NoError(t, err)

	content, err := svc.Reports.Export(ctx, report.ID, Requester{UserID: user.ID})
	require.NoError(t, err)
	// xlsx 是 zip 包
	require.Greater(t, len(content), 4)
	assert.Equal(t, []byte("PK"), content[:2])
}

func TestRangeSummaryIncludesBothEnds(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, svc, "alice")
	for _, date := range []string{"2024-03-01", "2024-03-05", "2024-03-06"} {
		addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindMood, MoodType: "calm", RecordDate: date})
	}

	summary, err := svc.Reports.RangeSummary(ctx, user.ID, "2024-03-01", "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.RecordCount)
	assert.Equal(t, "2024-03-01", summary.WindowStart)
	assert.Equal(t, "2024-03-05", summary.WindowEnd)

	_, err = svc.Reports.RangeSummary(ctx, user.ID, "2024-03-05", "2024-03-01")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestTrendsDefaultsToMonth(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, svc, "alice")
	today := time.Now()
	for i, minutes := range []int{10, 10, 40, 40} {
		date := today.AddDate(0, 0, i-4).Format(models.DateLayout)
		addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindExercise, ExerciseType: "run", Duration: intPtr(minutes), RecordDate: date})
	}

	trends, err := svc.Reports.Trends(ctx, user.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "month", trends.Period)
	require.Len(t, trends.Exercise.Points, 4)
	assert.Equal(t, SeriesRisingFast, trends.Exercise.Direction)
	assert.Equal(t, SeriesNoData, trends.Mood.Direction)
	assert.Empty(t, trends.Food.Points)

	_, err = svc.Reports.Trends(ctx, user.ID, "decade")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}
