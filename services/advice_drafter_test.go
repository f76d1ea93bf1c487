package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"HealthifyGo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

type mockModel struct {
	mock.Mock
}

func (m *mockModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	args := m.Called(ctx, messages)
	resp, _ := args.Get(0).(*llms.ContentResponse)
	return resp, args.Error(1)
}

func (m *mockModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func humanPrompt(messages []llms.MessageContent) string {
	for _, msg := range messages {
		if msg.Role != schema.ChatMessageTypeHuman {
			continue
		}
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				return text.Text
			}
		}
	}
	return ""
}

func TestDraftWithoutModelIsUnavailable(t *testing.T) {
	_, svc := newTestServices(t)

	_, err := svc.Drafter.Draft(context.Background(), 1)
	var unavailable *UnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestDraftUsesRequestAndLatestReport(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, svc, "alice")
	addRecord(t, svc, user.ID, models.CreateRecordRequest{Type: models.KindBodyStatus, Feeling: "tired", Status: []string{"insomnia"}})
	_, err := svc.Reports.Generate(ctx, user.ID, "week")
	require.NoError(t, err)
	req, err := svc.Advice.Submit(ctx, user.ID, strPtr("晚上睡不着怎么办"))
	require.NoError(t, err)

	model := new(mockModel)
	model.On("GenerateContent", mock.Anything, mock.MatchedBy(func(messages []llms.MessageContent) bool {
		prompt := humanPrompt(messages)
		return len(messages) == 2 &&
			strings.Contains(prompt, "晚上睡不着怎么办") &&
			strings.Contains(prompt, "insomnia(1次)")
	})).Return(&llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "  建议固定作息时间。 "}},
	}, nil).Once()

	drafter := NewAdviceDrafter(model, svc.Advice, svc.Reports)
	draft, err := drafter.Draft(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "建议固定作息时间。", draft)
	model.AssertExpectations(t)

	// 草稿不会写入请求
	stored, err := svc.Advice.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdvicePending, stored.Status)
	assert.Nil(t, stored.ResponseText)
}

func TestDraftModelFailure(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	user := createUser(t, svc, "alice")
	req, err := svc.Advice.Submit(ctx, user.ID, nil)
	require.NoError(t, err)

	model := new(mockModel)
	model.On("GenerateContent", mock.Anything, mock.Anything).Return(nil, errors.New("timeout")).Once()

	_, err = NewAdviceDrafter(model, svc.Advice, svc.Reports).Draft(ctx, req.ID)
	var unavailable *UnavailableError
	assert.ErrorAs(t, err, &unavailable)

	_, err = NewAdviceDrafter(model, svc.Advice, svc.Reports).Draft(ctx, 999)
	assert.True(t, IsNotFound(err))
}
