package services

import (
	"context"
	"testing"
	"time"

	"HealthifyGo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRecordValidation(t *testing.T) {
	_, svc := newTestServices(t)
	user := createUser(t, svc, "alice")
	ctx := context.Background()

	bad := []models.CreateRecordRequest{
		{Type: "sleep"},
		{Type: models.KindFood, FoodName: "rice", MealTime: "brunch"},
		{Type: models.KindFood, MealTime: "lunch"},
		{Type: models.KindExercise, ExerciseType: "run", Duration: intPtr(-5)},
		{Type: models.KindBodyStatus, Feeling: "great"},
		{Type: models.KindMood, MoodType: "happy", RecordDate: "20-01-2024"},
	}
	for _, req := range bad {
		req := req
		_, err := svc.Records.Create(ctx, user.ID, &req)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve, "request %+v", req)
	}
}

func TestRecordListGetDelete(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alice := createUser(t, svc, "alice")
	bob := createUser(t, svc, "bob")

	mood := addRecord(t, svc, alice.ID, models.CreateRecordRequest{Type: models.KindMood, MoodType: "calm", RecordDate: "2024-01-02"})
	addRecord(t, svc, alice.ID, models.CreateRecordRequest{Type: models.KindFood, FoodName: "rice", MealTime: "lunch", RecordDate: "2024-01-05"})
	addRecord(t, svc, bob.ID, models.CreateRecordRequest{Type: models.KindMood, MoodType: "sad"})

	rows, p, err := svc.Records.List(ctx, alice.ID, RecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.TotalItems)
	require.Len(t, rows, 2)
	assert.Equal(t, models.KindFood, rows[0].Type)

	rows, _, err = svc.Records.List(ctx, alice.ID, RecordFilter{Kind: models.KindMood})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "calm", *rows[0].MoodType)

	rows, _, err = svc.Records.List(ctx, alice.ID, RecordFilter{StartDate: "2024-01-03", EndDate: "2024-01-05"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.KindFood, rows[0].Type)

	got, err := svc.Records.Get(ctx, alice.ID, mood.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", models.DayKey(got.RecordDate))

	// 别人的记录按不存在处理
	_, err = svc.Records.Get(ctx, bob.ID, mood.ID)
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(svc.Records.Delete(ctx, bob.ID, mood.ID)))

	require.NoError(t, svc.Records.Delete(ctx, alice.ID, mood.ID))
	_, err = svc.Records.Get(ctx, alice.ID, mood.ID)
	assert.True(t, IsNotFound(err))
}

func TestInWindowRestoresVariants(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, svc, "alice")
	addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindBodyStatus, Feeling: "good", Status: []string{"cough", "fever"}})
	addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindExercise, ExerciseType: "yoga", Duration: intPtr(25)})
	addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindMood, MoodType: "calm", RecordDate: "2000-01-01"})

	w, err := PeriodWindow("week", time.Now())
	require.NoError(t, err)
	records, err := svc.Records.InWindow(ctx, user.ID, w)
	require.NoError(t, err)
	require.Len(t, records, 2)

	kinds := map[models.RecordKind]models.Record{}
	for _, r := range records {
		kinds[r.Kind()] = r
	}
	body, ok := kinds[models.KindBodyStatus].(models.BodyStatusRecord)
	require.True(t, ok)
	assert.Equal(t, []string{"cough", "fever"}, body.Status)
	exercise, ok := kinds[models.KindExercise].(models.ExerciseRecord)
	require.True(t, ok)
	assert.Equal(t, 25, exercise.Duration)
	assert.Equal(t, "medium", exercise.Intensity)
}

func TestUpdateRecordKeepsKindAndDate(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alice := createUser(t, svc, "alice")
	bob := createUser(t, svc, "bob")

	meal := addRecord(t, svc, alice.ID, models.CreateRecordRequest{Type: models.KindFood, FoodName: "rice", MealTime: "lunch", RecordDate: "2024-03-01"})

	updated, err := svc.Records.Update(ctx, alice.ID, meal.ID, &models.UpdateRecordRequest{MealTime: strPtr("dinner"), Note: strPtr("加了鸡蛋")})
	require.NoError(t, err)
	assert.Equal(t, meal.ID, updated.ID)
	assert.Equal(t, "dinner", *updated.MealTime)
	assert.Equal(t, "rice", *updated.FoodName)
	assert.Equal(t, "加了鸡蛋", updated.Note)
	assert.Equal(t, "2024-03-01", models.DayKey(updated.RecordDate))

	stored, err := svc.Records.Get(ctx, alice.ID, meal.ID)
	require.NoError(t, err)
	assert.Equal(t, "dinner", *stored.MealTime)

	var ve *ValidationError
	_, err = svc.Records.Update(ctx, alice.ID, meal.ID, &models.UpdateRecordRequest{MealTime: strPtr("brunch")})
	assert.ErrorAs(t, err, &ve)
	_, err = svc.Records.Update(ctx, alice.ID, meal.ID, &models.UpdateRecordRequest{Type: models.KindMood, MoodType: strPtr("happy")})
	assert.ErrorAs(t, err, &ve)

	// 别人的记录按不存在处理
	_, err = svc.Records.Update(ctx, bob.ID, meal.ID, &models.UpdateRecordRequest{MealTime: strPtr("dinner")})
	assert.True(t, IsNotFound(err))
}

func TestUpdateBodyStatusRecomputesBMI(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, svc, "alice")
	_, err := svc.Users.UpdateProfile(ctx, user.ID, &models.UpdateProfileRequest{HeightCM: floatPtr(180)})
	require.NoError(t, err)

	body := addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindBodyStatus, Feeling: "good", WeightKG: floatPtr(72.9)})
	require.NotNil(t, body.BMI)
	assert.Equal(t, 22.5, *body.BMI)

	updated, err := svc.Records.Update(ctx, user.ID, body.ID, &models.UpdateRecordRequest{WeightKG: floatPtr(81)})
	require.NoError(t, err)
	require.NotNil(t, updated.BMI)
	assert.Equal(t, 25.0, *updated.BMI)
	assert.Equal(t, "good", *updated.Feeling)
}

func TestRecordStats(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, svc, "alice")
	old := time.Now().AddDate(0, 0, -40).Format(models.DateLayout)

	addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindExercise, ExerciseType: "run", Duration: intPtr(30)})
	addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindExercise, ExerciseType: "swim", Duration: intPtr(45)})
	addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindMood, MoodType: "happy"})
	addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindMood, MoodType: "happy"})
	addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindBodyStatus, Feeling: "tired"})
	addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindMood, MoodType: "sad", RecordDate: old})

	stats, err := svc.Records.Stats(ctx, user.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalRecords)
	assert.Equal(t, map[string]int{"food": 0, "exercise": 2, "mood": 2, "body_status": 1}, stats.Counts)
	assert.Equal(t, 75, stats.ExerciseMinutes)
	assert.Equal(t, map[string]int{"happy": 2}, stats.MoodDistribution)
	assert.Equal(t, map[string]int{"tired": 1}, stats.HealthDistribution)

	_, err = svc.Records.Stats(ctx, user.ID, 0)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}
