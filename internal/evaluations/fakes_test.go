package evaluations

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"hiring-backend/internal/identity"
	"hiring-backend/internal/llm"
	"hiring-backend/internal/thresholds"
)

// fakeProvider returns canned scores and records every call.
type fakeProvider struct {
	mu    sync.Mutex
	calls []string

	rubric        string
	resumeScore   *float64
	profileScore  *float64
	candidateName string
	err           error

	// block, when set, holds GenerateRubric until closed. started is signalled first.
	block   chan struct{}
	started chan struct{}

	// duringResume runs inside EvaluateResume before it answers.
	duringResume    func()
	resumeThreshold float64
}

func score(v float64) *float64 { return &v }

func newFakeProvider() *fakeProvider {
	return &fakeProvider{rubric: "## Rubric\n\n- Go experience"}
}

func (p *fakeProvider) record(call string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, call)
}

func (p *fakeProvider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *fakeProvider) count(call string) int {
	n := 0
	for _, c := range p.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (p *fakeProvider) GenerateRubric(ctx context.Context, req llm.RubricRequest) (string, error) {
	p.record("rubric")
	if p.block != nil {
		if p.started != nil {
			p.started <- struct{}{}
		}
		select {
		case <-p.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if p.err != nil {
		return "", p.err
	}
	return p.rubric, nil
}

func (p *fakeProvider) RefineRubric(ctx context.Context, req llm.RefineRequest) (string, error) {
	p.record("refine")
	if p.err != nil {
		return "", p.err
	}
	return req.Rubric + "\n- " + req.Feedback, nil
}

func (p *fakeProvider) EvaluateResume(ctx context.Context, req llm.ResumeRequest) (llm.Evaluation, error) {
	p.record("resume")
	p.mu.Lock()
	p.resumeThreshold = req.Threshold
	p.mu.Unlock()
	if p.duringResume != nil {
		p.duringResume()
	}
	if p.err != nil {
		return llm.Evaluation{}, p.err
	}
	return llm.Evaluation{
		Score:         p.resumeScore,
		Narrative:     fmt.Sprintf("## LEVEL 1 EVALUATION\n\nThreshold %.1f", req.Threshold),
		CandidateName: p.candidateName,
	}, nil
}

func (p *fakeProvider) AnalyzeProfile(ctx context.Context, req llm.ProfileRequest) (llm.Evaluation, error) {
	p.record("profile:" + req.Identifier)
	if p.err != nil {
		return llm.Evaluation{}, p.err
	}
	return llm.Evaluation{Score: p.profileScore, Narrative: "## LEVEL 2 EVALUATION\n\nActive open source."}, nil
}

var _ llm.Provider = (*fakeProvider)(nil)

// fakeValidator knows a fixed set of handles.
type fakeValidator struct {
	mu     sync.Mutex
	known  map[string]bool
	err    error
	checks []string
}

func newFakeValidator(handles ...string) *fakeValidator {
	known := make(map[string]bool, len(handles))
	for _, h := range handles {
		known[strings.ToLower(h)] = true
	}
	return &fakeValidator{known: known}
}

func (v *fakeValidator) Validate(ctx context.Context, identifier string) (identity.Identity, error) {
	v.mu.Lock()
	v.checks = append(v.checks, identifier)
	v.mu.Unlock()

	handle, err := identity.Normalize(identifier)
	if err != nil {
		return identity.Identity{}, err
	}
	if v.err != nil {
		return identity.Identity{}, v.err
	}
	if !v.known[strings.ToLower(handle)] {
		return identity.Identity{}, identity.ErrIdentifierNotFound
	}
	return identity.Identity{Exists: true, Canonical: handle, ProfileURL: identity.ProfileURL(handle)}, nil
}

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestService(p *fakeProvider, v identity.Validator) *Service {
	n := 0
	return NewService(Deps{
		Provider:   p,
		Validator:  v,
		Thresholds: thresholds.NewService(thresholds.Default(), nil),
		Now:        func() time.Time { return fixedNow },
		NewID: func() string {
			n++
			return fmt.Sprintf("session-%d", n)
		},
	})
}

// ready drives a service to RUBRIC_READY.
func ready(ctx context.Context, s *Service) error {
	if _, err := s.SubmitJobDescription(ctx, JobDescriptionInput{Text: "Senior Go engineer, distributed systems"}); err != nil {
		return err
	}
	_, _, err := s.GenerateRubric(ctx)
	return err
}
