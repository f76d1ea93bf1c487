package services

import (
	"context"
	"fmt"
	"strings"

	"HealthifyGo/config"
	"HealthifyGo/models"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

const draftSystemPrompt = `你是一名健康顾问，帮助管理员回复用户的健康建议请求。
请根据用户最近的健康报告数据给出具体、可执行的建议，语气友好，不超过300字。
不要做医学诊断，如有明显异常请建议用户就医。`

// AdviceDrafter 用大模型为管理员生成回复草稿，草稿不会保存
type AdviceDrafter struct {
	model   llms.Model
	advice  *AdviceService
	reports *ReportService
}

func NewAdviceDrafter(model llms.Model, advice *AdviceService, reports *ReportService) *AdviceDrafter {
	return &AdviceDrafter{model: model, advice: advice, reports: reports}
}

func (d *AdviceDrafter) Draft(ctx context.Context, requestID uint) (string, error) {
	if d.model == nil {
		return "", &UnavailableError{Message: "AI 草稿功能未配置"}
	}

	req, err := d.advice.Get(ctx, requestID)
	if err != nil {
		return "", err
	}
	var report *models.Report
	if latest, err := d.reports.Latest(ctx, req.UserID); err == nil {
		report = latest
	} else if !IsNotFound(err) {
		return "", err
	}

	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(draftSystemPrompt)},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(draftPrompt(req, report))},
		},
	}

	response, err := d.model.GenerateContent(ctx, messages, llms.WithTemperature(0.7))
	if err != nil {
		config.Logger.Errorw("生成回复草稿失败", "error", err, "requestID", requestID)
		return "", &UnavailableError{Message: "AI 服务暂时不可用"}
	}
	if len(response.Choices) == 0 {
		return "", &UnavailableError{Message: "AI 服务没有返回内容"}
	}
	return strings.TrimSpace(response.Choices[0].Content), nil
}

func draftPrompt(req *models.AdviceRequest, report *models.Report) string {
	var b strings.Builder
	if req.RequestText != nil {
		fmt.Fprintf(&b, "用户的问题：%s\n", *req.RequestText)
	} else {
		b.WriteString("用户没有填写具体问题，请给出综合建议。\n")
	}
	if report == nil {
		b.WriteString("用户还没有生成过健康报告。\n")
		return b.String()
	}

	s := report.ReportData
	fmt.Fprintf(&b, "最近报告(%s 至 %s，%s)：\n", report.StartDate, report.EndDate, report.ReportType)
	fmt.Fprintf(&b, "- 记录数：%d，饮食记录：%d，用餐规律度：%d%%\n", s.RecordCount, s.FoodCount, s.RegularityRate)
	fmt.Fprintf(&b, "- 心情评分：%.2f，主要心情：%s，趋势：%s\n", s.MoodScore, s.TopMood, s.MoodTrend)
	fmt.Fprintf(&b, "- 身体评分：%.2f\n", s.HealthScore)
	fmt.Fprintf(&b, "- 运动总时长：%d 分钟\n", s.ExerciseMinutes)
	if s.BMI != nil {
		fmt.Fprintf(&b, "- BMI：%.1f\n", *s.BMI)
	}
	if len(s.CommonIssues) > 0 {
		issues := make([]string, 0, len(s.CommonIssues))
		for _, issue := range s.CommonIssues {
			issues = append(issues, fmt.Sprintf("%s(%d次)", issue.Type, issue.Count))
		}
		fmt.Fprintf(&b, "- 常见不适：%s\n", strings.Join(issues, "、"))
	}
	return b.String()
}
