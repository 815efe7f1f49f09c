package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/app/models/dto"
	"github.com/yigit/placementprep/internal/pkg/apperrors"
)

const assistantPrompt = `You are a placement preparation assistant for college students.
Answer concisely and practically. When company details are provided, ground your
answer in them and say so when the details do not cover the question.`

// ChatService defines the interface for the preparation assistant
type ChatService interface {
	Ask(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

// chatServiceImpl implements ChatService
type chatServiceImpl struct {
	model     llms.Model
	companies CompanyStore
	timeout   time.Duration
	logger    zerolog.Logger
}

// NewChatService creates a new ChatService. A nil model makes every call
// fail with ErrServiceUnavailable.
func NewChatService(model llms.Model, companies CompanyStore, timeout time.Duration, logger zerolog.Logger) ChatService {
	return &chatServiceImpl{
		model:     model,
		companies: companies,
		timeout:   timeout,
		logger:    logger.With().Str("service", "chat").Logger(),
	}
}

// Ask forwards the question, with the company's details when one is named
func (s *chatServiceImpl) Ask(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	if s.model == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrServiceUnavailable, "assistant is not configured")
	}
	question := strings.TrimSpace(req.Message)
	if question == "" {
		return nil, apperrors.FieldError("message", "message is required")
	}

	messages := []llms.MessageContent{llms.TextParts(schema.ChatMessageTypeSystem, assistantPrompt)}
	if req.CompanyID != "" {
		companyContext, err := s.companyContext(ctx, req.CompanyID)
		if err != nil {
			return nil, err
		}
		messages = append(messages, llms.TextParts(schema.ChatMessageTypeSystem, companyContext))
	}
	messages = append(messages, llms.TextParts(schema.ChatMessageTypeHuman, question))

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.model.GenerateContent(ctx, messages)
	if err != nil {
		s.logger.Error().Err(err).Msg("Assistant call failed")
		return nil, apperrors.NewExternalError("assistant", err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.NewExternalError("assistant", fmt.Errorf("empty response"))
	}
	return &dto.ChatResponse{Reply: strings.TrimSpace(resp.Choices[0].Content)}, nil
}

// companyContext summarizes an approved company for the prompt
func (s *chatServiceImpl) companyContext(ctx context.Context, companyID string) (string, error) {
	id, err := parseID("companyId", companyID)
	if err != nil {
		return "", err
	}
	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if c.Status != models.CompanyApproved {
		return "", apperrors.ErrCompanyNotFound
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s (%s)\n", c.Name, c.Type)
	if c.Eligibility != "" {
		fmt.Fprintf(&b, "Eligibility: %s\n", c.Eligibility)
	}
	for _, r := range c.Roles {
		fmt.Fprintf(&b, "Role: %s, first year pay %s\n", r.RoleName, r.FinalPayFirstYear)
	}
	writeList(&b, "Interview process", c.InterviewProcess)
	writeList(&b, "Interview questions", c.InterviewQuestions)
	writeList(&b, "Must-do topics", c.MustDoTopics)
	writeList(&b, "Online assessment questions", c.Questions())
	if c.DifficultyRatingCount > 0 {
		fmt.Fprintf(&b, "Average interview difficulty: %.2f/5 from %d ratings\n",
			c.InterviewDifficultyLevel, c.DifficultyRatingCount)
	}
	return b.String(), nil
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
}
