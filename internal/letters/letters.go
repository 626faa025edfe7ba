package letters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/adarshsingh05/paperly-backend/internal/llm"
)

// Kind selects which HR letter template to draft.
type Kind string

const (
	KindOffer      Kind = "offer"
	KindSalary     Kind = "salary"
	KindOnboarding Kind = "onboarding"
	KindNDA        Kind = "nda"
)

var ErrInvalidInput = errors.New("invalid input")

// ParseKind validates the :kind path segment.
func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindOffer:
		return KindOffer, nil
	case KindSalary:
		return KindSalary, nil
	case KindOnboarding:
		return KindOnboarding, nil
	case KindNDA:
		return KindNDA, nil
	}
	return "", fmt.Errorf("%w: unknown letter kind %q", ErrInvalidInput, raw)
}

var kindSubjects = map[Kind]string{
	KindOffer:      "an employment offer letter",
	KindSalary:     "a salary revision letter",
	KindOnboarding: "an onboarding welcome letter",
	KindNDA:        "a non-disclosure agreement",
}

// Input carries the details woven into the drafted letter.
type Input struct {
	EmployeeName string `json:"employeeName"`
	Role         string `json:"role"`
	CompanyName  string `json:"companyName"`
	StartDate    string `json:"startDate,omitempty"`
	Salary       string `json:"salary,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

func (in Input) validate() error {
	if strings.TrimSpace(in.EmployeeName) == "" {
		return fmt.Errorf("%w: employeeName is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.CompanyName) == "" {
		return fmt.Errorf("%w: companyName is required", ErrInvalidInput)
	}
	return nil
}

const systemPrompt = "You are an HR assistant drafting formal workplace letters. " +
	"Write complete, professional letters in plain text with no markdown."

func buildPrompt(kind Kind, in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Draft %s for %s", kindSubjects[kind], in.EmployeeName)
	if in.Role != "" {
		fmt.Fprintf(&b, ", for the role of %s", in.Role)
	}
	fmt.Fprintf(&b, ", on behalf of %s.", in.CompanyName)
	if in.StartDate != "" {
		fmt.Fprintf(&b, " Start date: %s.", in.StartDate)
	}
	if in.Salary != "" {
		fmt.Fprintf(&b, " Compensation: %s.", in.Salary)
	}
	if in.Notes != "" {
		fmt.Fprintf(&b, " Additional details: %s", in.Notes)
	}
	return b.String()
}

type Service struct {
	LLM llm.Client
}

func NewService(client llm.Client) *Service {
	return &Service{LLM: client}
}

// Generate drafts the requested letter through the configured provider.
func (s *Service) Generate(ctx context.Context, kind Kind, in Input) (string, error) {
	if s == nil || s.LLM == nil {
		return "", errors.New("letters service not configured")
	}
	if err := in.validate(); err != nil {
		return "", err
	}
	text, err := s.LLM.Complete(ctx, llm.CompleteInput{
		System: systemPrompt,
		Prompt: buildPrompt(kind, in),
	})
	if err != nil {
		return "", fmt.Errorf("generate %s letter: %w", kind, err)
	}
	return text, nil
}
