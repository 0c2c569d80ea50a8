package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"hiring-backend/internal/shared/metrics"
	"hiring-backend/internal/shared/telemetry"
)

// Provider is the analysis capability the evaluation pipeline depends on.
// One call per kind; implementations may fail or time out.
type Provider interface {
	GenerateRubric(ctx context.Context, req RubricRequest) (string, error)
	RefineRubric(ctx context.Context, req RefineRequest) (string, error)
	EvaluateResume(ctx context.Context, req ResumeRequest) (Evaluation, error)
	AnalyzeProfile(ctx context.Context, req ProfileRequest) (Evaluation, error)
}

type RubricRequest struct {
	JobDescription string
}

type RefineRequest struct {
	JobDescription string
	Rubric         string
	Feedback       string
}

type ResumeRequest struct {
	Rubric     string
	ResumeText string
	Threshold  float64
}

type ProfileRequest struct {
	Rubric         string
	JobDescription string
	Identifier     string
	ProfileURL     string
	ProfileFacts   string
}

// Evaluation is the raw provider verdict for one level. Score is untrusted:
// it may be nil, NaN or outside [0,10].
type Evaluation struct {
	Score         *float64
	Narrative     string
	CandidateName string
}

// ErrEmptyResponse means the provider returned no usable text.
var ErrEmptyResponse = errors.New("analysis provider returned empty response")

// Analyzer implements Provider on top of a completion Client.
type Analyzer struct {
	Client Client
	Name   string
	Model  string
}

// NewAnalyzer wraps client. name and model are only used for logs.
func NewAnalyzer(client Client, name, model string) *Analyzer {
	if client == nil {
		client = PlaceholderClient{}
	}
	return &Analyzer{Client: client, Name: name, Model: model}
}

func (a *Analyzer) GenerateRubric(ctx context.Context, req RubricRequest) (string, error) {
	text, err := a.run(ctx, "rubric", "rubric.tmpl", req, 0.3)
	if err != nil {
		return "", err
	}
	return CleanMarkdown(text), nil
}

func (a *Analyzer) RefineRubric(ctx context.Context, req RefineRequest) (string, error) {
	text, err := a.run(ctx, "rubric_refine", "refine.tmpl", req, 0.3)
	if err != nil {
		return "", err
	}
	return CleanMarkdown(text), nil
}

func (a *Analyzer) EvaluateResume(ctx context.Context, req ResumeRequest) (Evaluation, error) {
	text, err := a.run(ctx, "resume", "resume.tmpl", req, 0)
	if err != nil {
		return Evaluation{}, err
	}
	return toEvaluation(text), nil
}

func (a *Analyzer) AnalyzeProfile(ctx context.Context, req ProfileRequest) (Evaluation, error) {
	text, err := a.run(ctx, "profile", "profile.tmpl", req, 0)
	if err != nil {
		return Evaluation{}, err
	}
	return toEvaluation(text), nil
}

func (a *Analyzer) run(ctx context.Context, call, tmpl string, data any, temperature float32) (string, error) {
	user, err := renderPrompt(tmpl, data)
	if err != nil {
		return "", err
	}

	start := time.Now()
	out, err := a.Client.Complete(ctx, Prompt{System: systemPrompt, User: user, Temperature: temperature})
	elapsed := time.Since(start)
	metrics.ObserveProviderCall(call, elapsed, err)

	fields := map[string]any{
		"call":        call,
		"provider":    a.Name,
		"model":       a.Model,
		"duration_ms": elapsed.Milliseconds(),
	}
	if err != nil {
		fields["error"] = err.Error()
		telemetry.Error("llm.call_failed", fields)
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		telemetry.Error("llm.empty_response", fields)
		return "", ErrEmptyResponse
	}
	fields["preview"] = telemetry.TruncateForLog(out, 160)
	telemetry.Debug("llm.call_complete", fields)
	return out, nil
}

func toEvaluation(text string) Evaluation {
	narrative := text
	if n, ok := jsonNarrative(text); ok {
		narrative = n
	}
	return Evaluation{
		Score:         ParseScore(text),
		Narrative:     stripCandidateLine(CleanFences(narrative)),
		CandidateName: ParseCandidateName(text),
	}
}

// CleanFences removes code fence markers without trimming any preamble.
func CleanFences(text string) string {
	return strings.TrimSpace(fenceLine.ReplaceAllString(text, ""))
}

var _ Provider = (*Analyzer)(nil)
