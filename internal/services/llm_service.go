package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/justsurfingit/job-posts/internal/models"
)

// ErrDraftFailed is returned when the model fails or answers with something that is not a draft.
var ErrDraftFailed = errors.New("draft extraction failed")

const maxRawTextLen = 20000

// Generator returns the model completion for a single prompt.
type Generator func(ctx context.Context, prompt string) (string, error)

// LLMService turns a pasted job advert into a job post draft.
type LLMService struct {
	generate Generator
}

// NewLLMService initializes a Gemini client through langchaingo
func NewLLMService(ctx context.Context, apiKey, model string) (*LLMService, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return NewLLMServiceWithGenerator(func(ctx context.Context, prompt string) (string, error) {
		return llms.GenerateFromSinglePrompt(ctx, llm, prompt, llms.WithTemperature(0))
	}), nil
}

func NewLLMServiceWithGenerator(g Generator) *LLMService {
	return &LLMService{generate: g}
}

const draftPrompt = `
You are an expert recruitment assistant. Your task is to read the raw HTML/Text of a job advert and
draft a job post for our careers page.

### INSTRUCTIONS:
1. **Ignore** navigation menus, footers, "similar jobs" lists, and site advertisements.
2. **Extract** the fields below strictly.
3. **Format** the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "title": "Job title (e.g., Senior Backend Engineer)",
    "department": "Team or department (e.g., Engineering, Marketing)",
    "employmentType": "Exactly one of: Full-time, Part-time, Internship",
    "description": "Responsibilities and requirements as simple HTML using <p>, <ul>, <li>, <strong>",
    "location": "Job location or 'Remote'",
    "deadline": "Application deadline as YYYY-MM-DD"
}

### CONSTRAINT:
If a piece of information is missing, set the value to null. Do not hallucinate or guess.

### RAW CONTENT:
%s
`

type draftPayload struct {
	Title          *string `json:"title"`
	Department     *string `json:"department"`
	EmploymentType *string `json:"employmentType"`
	Description    *string `json:"description"`
	Location       *string `json:"location"`
	Deadline       *string `json:"deadline"`
}

// DraftJobPost asks the model for a draft. Missing values come back empty; the
// draft is not validated or stored.
func (s *LLMService) DraftJobPost(ctx context.Context, rawText string) (models.JobPostFormData, error) {
	rawText = truncate(rawText, maxRawTextLen)

	resp, err := s.generate(ctx, fmt.Sprintf(draftPrompt, rawText))
	if err != nil {
		return models.JobPostFormData{}, fmt.Errorf("%w: %v", ErrDraftFailed, err)
	}

	var p draftPayload
	if err := json.Unmarshal([]byte(stripCodeFence(resp)), &p); err != nil {
		return models.JobPostFormData{}, fmt.Errorf("%w: model returned invalid json: %v", ErrDraftFailed, err)
	}

	draft := models.JobPostFormData{
		Title:          deref(p.Title),
		Department:     deref(p.Department),
		EmploymentType: models.EmploymentType(deref(p.EmploymentType)),
		Description:    deref(p.Description),
		Location:       deref(p.Location),
		Deadline:       deref(p.Deadline),
	}
	if !draft.EmploymentType.Valid() {
		draft.EmploymentType = ""
	}
	return draft, nil
}

// stripCodeFence removes a ```json ... ``` wrapper some models add despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
