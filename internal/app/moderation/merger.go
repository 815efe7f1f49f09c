// Package moderation folds approved user submissions into the shared company
// document and keeps the document's content arrays clean.
package moderation

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/pkg/apperrors"
	"github.com/yigit/placementprep/internal/pkg/sanitize"
)

// SolutionSeparator joins independently approved solutions to one question
const SolutionSeparator = "\n\n"

// Outcome describes what a merge did to the company document
type Outcome string

const (
	OutcomeAppended Outcome = "appended"
	OutcomeMerged   Outcome = "merged"
	OutcomeNoop     Outcome = "noop"
)

// Merger applies approved submissions to company documents. It holds no
// state beyond its logger and is safe for concurrent use.
type Merger struct {
	logger zerolog.Logger
}

// NewMerger creates a Merger
func NewMerger(logger zerolog.Logger) *Merger {
	return &Merger{logger: logger.With().Str("component", "merger").Logger()}
}

// onlineQuestionPayload is the structured form of an onlineQuestions submission
type onlineQuestionPayload struct {
	Question string `json:"question"`
	Solution string `json:"solution"`
}

// Merge applies sub to c: legacy fields are migrated, the fragment is
// sanitized and merged by type, then FinalPass tidies the whole document.
// c is modified in place; nothing is persisted.
func (m *Merger) Merge(c *models.Company, sub *models.Submission) (Outcome, error) {
	if c.MigrateLegacySolutions() {
		m.logger.Info().Str("companyId", c.ID.String()).Msg("Migrated legacy online question solutions")
	}

	var (
		outcome Outcome
		err     error
	)
	switch sub.Type {
	case models.SubmissionOnlineQuestions:
		outcome, err = mergeOnlineQuestion(c, sub.Content)
	case models.SubmissionInterviewQuestions:
		outcome, err = appendUnique(&c.InterviewQuestions, sub.Content, sanitize.MaxInterviewQuestion)
	case models.SubmissionInterviewProcess:
		outcome, err = appendUnique(&c.InterviewProcess, sub.Content, sanitize.MaxProcessStep)
	case models.SubmissionMustDoTopics:
		outcome, err = appendUnique(&c.MustDoTopics, sub.Content, sanitize.MaxTopic)
	default:
		return OutcomeNoop, apperrors.FieldError("type", "unsupported submission type")
	}
	if err != nil {
		return OutcomeNoop, err
	}

	FinalPass(c)

	m.logger.Debug().
		Str("companyId", c.ID.String()).
		Str("submissionId", sub.ID.String()).
		Str("type", string(sub.Type)).
		Str("outcome", string(outcome)).
		Msg("Submission merged")
	return outcome, nil
}

// parseOnlineQuestion accepts either a JSON {question, solution} object or
// raw text, which is taken as the question alone.
func parseOnlineQuestion(content string) (question, solution string) {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") {
		var p onlineQuestionPayload
		if err := json.Unmarshal([]byte(trimmed), &p); err == nil && strings.TrimSpace(p.Question) != "" {
			return p.Question, p.Solution
		}
	}
	return content, ""
}

func mergeOnlineQuestion(c *models.Company, content string) (Outcome, error) {
	rawQ, rawS := parseOnlineQuestion(content)
	question := sanitize.Truncate(rawQ, sanitize.MaxQuestion)
	solution := sanitize.Truncate(rawS, sanitize.MaxSolution)
	if question == "" {
		return OutcomeNoop, apperrors.FieldError("content", "question is empty after sanitization")
	}

	for i := range c.OnlineQuestions {
		existing := &c.OnlineQuestions[i]
		if sanitize.Sanitize(existing.Question) != question {
			continue
		}
		if solution == "" || containsSolution(existing.Solution, solution) {
			return OutcomeNoop, nil
		}
		existing.Solution = joinSolutions(existing.Solution, solution)
		return OutcomeMerged, nil
	}

	c.OnlineQuestions = append(c.OnlineQuestions, models.OnlineQuestion{
		Question: question,
		Solution: solution,
	})
	return OutcomeAppended, nil
}

func appendUnique(list *[]string, content string, max int) (Outcome, error) {
	v := sanitize.Truncate(content, max)
	if v == "" {
		return OutcomeNoop, apperrors.FieldError("content", "content is empty after sanitization")
	}
	if sanitize.Contains(*list, v) {
		return OutcomeNoop, nil
	}
	*list = append(*list, v)
	return OutcomeAppended, nil
}

func joinSolutions(existing, addition string) string {
	existing = strings.TrimSpace(existing)
	if existing == "" {
		return addition
	}
	return sanitize.Truncate(existing+SolutionSeparator+addition, sanitize.MaxSolution)
}

func containsSolution(existing, candidate string) bool {
	for _, part := range strings.Split(existing, SolutionSeparator) {
		if strings.TrimSpace(part) == candidate {
			return true
		}
	}
	return false
}
