package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
	"github.com/zatekoja/hospitaladmin/internal/domain/providers"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hospitaladmin/pkg/errors"
)

// SymptomCheckFailedMessage is shown when the model call fails.
const SymptomCheckFailedMessage = "An error occurred while analyzing symptoms. Please try again later."

// disclaimerPattern matches a leading DISCLAIMER paragraph up to the first
// blank line.
var disclaimerPattern = regexp.MustCompile(`(?is)^(DISCLAIMER:.*?)(?:\n\n|\r\n\r\n)`)

// SymptomService asks the language model about symptoms.
type SymptomService struct {
	llm    providers.LanguageModelProvider
	status *FlowTracker
}

// NewSymptomService creates a symptom checker. A nil llm disables it.
func NewSymptomService(llm providers.LanguageModelProvider) *SymptomService {
	return &SymptomService{llm: llm, status: NewFlowTracker()}
}

// Check sends the symptoms and splits the answer. Failures are not retried.
func (s *SymptomService) Check(ctx context.Context, owner, symptoms string) (*entities.SymptomAssessment, error) {
	if strings.TrimSpace(symptoms) == "" {
		return nil, apperrors.NewValidationError("symptoms are required")
	}
	if s.llm == nil {
		return nil, apperrors.NewUnavailableError(AssistantUnavailableMessage)
	}

	ctx, span := observability.StartSpan(ctx, "symptoms.check")
	defer span.End()

	s.status.set(owner, entities.FlowStatusLoading, "")

	text, err := s.llm.GenerateText(ctx, symptomSystemInstruction, symptoms)
	if err != nil {
		observability.RecordError(span, err)
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Symptom check failed")
		s.status.set(owner, entities.FlowStatusError, SymptomCheckFailedMessage)
		return nil, apperrors.NewExternalError(SymptomCheckFailedMessage, err)
	}

	assessment := ParseAssessment(text)
	s.status.set(owner, entities.FlowStatusSuccess, "")
	return &assessment, nil
}

// Status returns the last check status for owner.
func (s *SymptomService) Status(owner string) entities.FlowState {
	return s.status.Get(owner)
}

// ParseAssessment splits a leading disclaimer paragraph from the body and
// converts newlines in the body to <br> line breaks.
func ParseAssessment(text string) entities.SymptomAssessment {
	loc := disclaimerPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return entities.SymptomAssessment{
			Content: strings.ReplaceAll(text, "\n", "<br>"),
			Raw:     text,
		}
	}

	disclaimer := strings.TrimSpace(text[loc[2]:loc[3]])
	body := strings.TrimSpace(text[loc[1]:])
	return entities.SymptomAssessment{
		Disclaimer: disclaimer,
		Content:    strings.ReplaceAll(body, "\n", "<br>"),
		Raw:        text,
	}
}
