package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/cybermozhi/cybermozhi-server/internal/core"
	"github.com/cybermozhi/cybermozhi-server/internal/core/apperr"
	"github.com/cybermozhi/cybermozhi-server/internal/core/prompts"
)

// AttackSummary is the structured result of summarizing an attack
// description.
type AttackSummary struct {
	Summary      string `json:"summary"`
	RelevantLaws string `json:"relevantLaws"`
}

// SummaryService condenses a free-form cyber attack description into a
// short summary plus the Indian law sections that apply.
type SummaryService struct {
	invoker core.ModelInvoker
}

func NewSummaryService(invoker core.ModelInvoker) *SummaryService {
	return &SummaryService{invoker: invoker}
}

func (s *SummaryService) Summarize(ctx context.Context, description string) (AttackSummary, error) {
	prompt, err := prompts.BuildAttackSummaryPrompt(description)
	if err != nil {
		return AttackSummary{}, err
	}

	var out AttackSummary
	if err := s.invoker.GenerateJSON(ctx, prompts.AttackSummary, prompt, &out); err != nil {
		return AttackSummary{}, fmt.Errorf("summarize attack: %w", err)
	}
	if strings.TrimSpace(out.Summary) == "" {
		return AttackSummary{}, fmt.Errorf("%w: blank summary", apperr.ErrEmptyOutput)
	}
	return out, nil
}
