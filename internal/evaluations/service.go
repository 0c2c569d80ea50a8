package evaluations

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hiring-backend/internal/decision"
	"hiring-backend/internal/identity"
	"hiring-backend/internal/llm"
	"hiring-backend/internal/queue"
	"hiring-backend/internal/report"
	"hiring-backend/internal/shared/metrics"
	"hiring-backend/internal/shared/storage/object"
	"hiring-backend/internal/shared/telemetry"
	"hiring-backend/internal/thresholds"
)

const (
	defaultProviderTimeout  = 90 * time.Second
	defaultValidatorTimeout = 10 * time.Second
	sideEffectTimeout       = 5 * time.Second
)

// Operation names used in logs and metrics.
const (
	OpSubmitJobDescription = "submit_job_description"
	OpGenerateRubric       = "generate_rubric"
	OpRefineRubric         = "refine_rubric"
	OpEvaluateResume       = "evaluate_resume"
	OpAnalyzeProfile       = "analyze_profile"
	OpGenerateVerdict      = "generate_verdict"
	OpReset                = "reset_session"
)

// Deps are the collaborators of a Service. Profiles, Events and Archive are optional.
type Deps struct {
	Provider   llm.Provider
	Validator  identity.Validator
	Profiles   identity.ProfileFetcher
	Thresholds *thresholds.Service
	Events     queue.Client
	Archive    object.Store

	ProviderTimeout  time.Duration
	ValidatorTimeout time.Duration
	Now              func() time.Time
	NewID            func() string
}

// Service drives the single live evaluation session through its stages.
// Mutations are serialized by a transition lock; a second mutation while one
// is in flight fails with a Conflict error instead of waiting. Reads take only
// the state lock and never wait on provider calls.
type Service struct {
	deps Deps

	transition sync.Mutex
	mu         sync.RWMutex
	session    *Session
}

// NewService returns a Service holding a fresh AWAITING_JD session.
func NewService(deps Deps) *Service {
	if deps.Provider == nil {
		deps.Provider = llm.NewAnalyzer(nil, "placeholder", "")
	}
	if deps.Thresholds == nil {
		deps.Thresholds = thresholds.NewService(thresholds.Default(), nil)
	}
	if deps.ProviderTimeout <= 0 {
		deps.ProviderTimeout = defaultProviderTimeout
	}
	if deps.ValidatorTimeout <= 0 {
		deps.ValidatorTimeout = defaultValidatorTimeout
	}
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	return &Service{deps: deps, session: newSession(deps.NewID(), deps.Now())}
}

// Snapshot returns a deep copy of the current session.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.clone()
}

// Thresholds returns the current threshold configuration.
func (s *Service) Thresholds() thresholds.Config {
	return s.deps.Thresholds.Get()
}

type JobDescriptionInput struct {
	Text     string
	Source   Source
	FileName string
}

// SubmitJobDescription starts a new session holding the job description.
// Any previous session and its artifacts are discarded.
func (s *Service) SubmitJobDescription(ctx context.Context, in JobDescriptionInput) (snap Snapshot, err error) {
	tx, err := s.begin(ctx, OpSubmitJobDescription)
	if err != nil {
		return Snapshot{}, err
	}
	defer func() { tx.end(err) }()

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return Snapshot{}, newError(KindValidation, "job description text is required", nil)
	}
	source := in.Source
	if source == "" {
		source = SourceText
	}

	now := s.deps.Now()
	next := newSession(s.deps.NewID(), now)
	next.JobDescription = &JobDescription{
		RawText:     text,
		Source:      source,
		FileName:    in.FileName,
		SubmittedAt: now,
	}
	return s.replace(next), nil
}

// GenerateRubric derives a rubric from the job description. A regenerated
// rubric replaces the old one without touching later artifacts or the stage.
func (s *Service) GenerateRubric(ctx context.Context) (rubric Rubric, snap Snapshot, err error) {
	tx, err := s.begin(ctx, OpGenerateRubric)
	if err != nil {
		return Rubric{}, Snapshot{}, err
	}
	defer func() { tx.end(err) }()

	cur := s.Snapshot()
	if cur.JobDescription == nil {
		return Rubric{}, Snapshot{}, stateError("submit a job description before generating a rubric", cur.Stage)
	}

	text, err := s.callProvider(ctx, func(pctx context.Context) (string, error) {
		return s.deps.Provider.GenerateRubric(pctx, llm.RubricRequest{JobDescription: cur.JobDescription.RawText})
	})
	if err != nil {
		return Rubric{}, Snapshot{}, err
	}

	rubric = Rubric{Text: text, GeneratedAt: s.deps.Now()}
	snap = s.commit(func(sess *Session) {
		r := rubric
		sess.Rubric = &r
		sess.advance(StageRubricReady)
	})
	return rubric, snap, nil
}

// RefineRubric revises the current rubric with reviewer feedback.
func (s *Service) RefineRubric(ctx context.Context, feedback string) (rubric Rubric, snap Snapshot, err error) {
	tx, err := s.begin(ctx, OpRefineRubric)
	if err != nil {
		return Rubric{}, Snapshot{}, err
	}
	defer func() { tx.end(err) }()

	cur := s.Snapshot()
	if cur.Rubric == nil {
		return Rubric{}, Snapshot{}, stateError("generate a rubric before refining it", cur.Stage)
	}
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return Rubric{}, Snapshot{}, newError(KindValidation, "feedback is required", nil)
	}

	text, err := s.callProvider(ctx, func(pctx context.Context) (string, error) {
		return s.deps.Provider.RefineRubric(pctx, llm.RefineRequest{
			JobDescription: cur.JobDescription.RawText,
			Rubric:         cur.Rubric.Text,
			Feedback:       feedback,
		})
	})
	if err != nil {
		return Rubric{}, Snapshot{}, err
	}

	rubric = Rubric{Text: text, GeneratedAt: s.deps.Now(), Refinements: cur.Rubric.Refinements + 1}
	snap = s.commit(func(sess *Session) {
		r := rubric
		sess.Rubric = &r
	})
	return rubric, snap, nil
}

// EvaluateResume scores résumé text against the rubric. The stage advances
// whether or not the résumé passes.
func (s *Service) EvaluateResume(ctx context.Context, resumeText string) (art Artifact, snap Snapshot, err error) {
	tx, err := s.begin(ctx, OpEvaluateResume)
	if err != nil {
		return Artifact{}, Snapshot{}, err
	}
	defer func() { tx.end(err) }()

	cur := s.Snapshot()
	if cur.Rubric == nil || !cur.Stage.in(StageRubricReady, StageResumeEvaluated) {
		return Artifact{}, Snapshot{}, stateError("a rubric is required and the profile or verdict stage must not have started", cur.Stage)
	}
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return Artifact{}, Snapshot{}, newError(KindValidation, "resume text is required", nil)
	}

	// The prompt quotes the passing score, so the artifact freezes the same value.
	threshold := s.deps.Thresholds.Get().For(thresholds.LevelResume)

	var eval llm.Evaluation
	_, err = s.callProvider(ctx, func(pctx context.Context) (string, error) {
		var callErr error
		eval, callErr = s.deps.Provider.EvaluateResume(pctx, llm.ResumeRequest{
			Rubric:     cur.Rubric.Text,
			ResumeText: resumeText,
			Threshold:  threshold,
		})
		return "ok", callErr
	})
	if err != nil {
		return Artifact{}, Snapshot{}, err
	}
	score, err := normalizeScore(eval.Score)
	if err != nil {
		return Artifact{}, Snapshot{}, err
	}

	var detected *string
	if handle, ok := identity.ExtractIdentifier(resumeText); ok {
		detected = &handle
	}
	name := strings.TrimSpace(eval.CandidateName)
	if name == "" {
		name = report.GuessCandidateName(resumeText)
	}

	art = newArtifact(score, threshold, eval.Narrative, detected, s.deps.Now())
	snap = s.commit(func(sess *Session) {
		a := cloneArtifact(art)
		sess.Resume = &a
		sess.ResumeText = resumeText
		sess.CandidateName = name
		sess.advance(StageResumeEvaluated)
	})
	return cloneArtifact(art), snap, nil
}

// AnalyzeProfile validates the identifier and then scores the profile. An
// empty identifier falls back to the one detected in the résumé. The provider
// is never called for an identifier that did not validate.
func (s *Service) AnalyzeProfile(ctx context.Context, identifier string) (pa ProfileAnalysis, snap Snapshot, err error) {
	tx, err := s.begin(ctx, OpAnalyzeProfile)
	if err != nil {
		return ProfileAnalysis{}, Snapshot{}, err
	}
	defer func() { tx.end(err) }()

	cur := s.Snapshot()
	if cur.Resume == nil || !cur.Stage.in(StageResumeEvaluated, StageProfileAnalyzed) {
		return ProfileAnalysis{}, Snapshot{}, stateError("evaluate a resume before analyzing a profile", cur.Stage)
	}
	identifier = strings.TrimSpace(identifier)
	if identifier == "" && cur.Resume.DetectedIdentifier != nil {
		identifier = *cur.Resume.DetectedIdentifier
	}
	if identifier == "" {
		return ProfileAnalysis{}, Snapshot{}, newError(KindValidation, "a profile identifier is required; none was found in the resume", nil)
	}

	ident, err := s.validate(ctx, identifier)
	if err != nil {
		return ProfileAnalysis{}, Snapshot{}, err
	}

	facts := s.profileFacts(ctx, ident.Canonical)

	var eval llm.Evaluation
	_, err = s.callProvider(ctx, func(pctx context.Context) (string, error) {
		var callErr error
		eval, callErr = s.deps.Provider.AnalyzeProfile(pctx, llm.ProfileRequest{
			Rubric:         cur.Rubric.Text,
			JobDescription: cur.JobDescription.RawText,
			Identifier:     ident.Canonical,
			ProfileURL:     ident.ProfileURL,
			ProfileFacts:   facts,
		})
		return "ok", callErr
	})
	if err != nil {
		return ProfileAnalysis{}, Snapshot{}, err
	}
	score, err := normalizeScore(eval.Score)
	if err != nil {
		return ProfileAnalysis{}, Snapshot{}, err
	}

	art := newArtifact(score, s.deps.Thresholds.Get().For(thresholds.LevelProfile), eval.Narrative, nil, s.deps.Now())
	pa, err = newProfileAnalysis(ident, art)
	if err != nil {
		return ProfileAnalysis{}, Snapshot{}, err
	}
	snap = s.commit(func(sess *Session) {
		p := pa
		sess.Profile = &p
		sess.advance(StageProfileAnalyzed)
	})
	return pa, snap, nil
}

// GenerateVerdict runs the decision engine over the present artifacts.
// Regenerating overwrites the previous verdict.
func (s *Service) GenerateVerdict(ctx context.Context) (v Verdict, snap Snapshot, err error) {
	tx, err := s.begin(ctx, OpGenerateVerdict)
	if err != nil {
		return Verdict{}, Snapshot{}, err
	}
	defer func() { tx.end(err) }()

	cur := s.Snapshot()
	if cur.Resume == nil && cur.Profile == nil {
		return Verdict{}, Snapshot{}, newError(KindInsufficientData, "no resume or profile evaluation to base a verdict on", decision.ErrInsufficientData)
	}
	if !cur.Stage.in(StageResumeEvaluated, StageProfileAnalyzed, StageVerdictReady) {
		return Verdict{}, Snapshot{}, stateError("verdict requires an evaluated resume", cur.Stage)
	}

	var levels []decision.LevelResult
	if cur.Resume != nil {
		levels = append(levels, levelResult(thresholds.LevelResume, *cur.Resume))
	}
	if cur.Profile != nil {
		levels = append(levels, levelResult(thresholds.LevelProfile, cur.Profile.Artifact))
	}

	out, err := decision.Decide(levels, s.deps.Thresholds.Get())
	if err != nil {
		if errors.Is(err, decision.ErrInsufficientData) {
			return Verdict{}, Snapshot{}, newError(KindInsufficientData, "no evaluated levels", err)
		}
		return Verdict{}, Snapshot{}, newError(KindInternal, "decision failed", err)
	}

	v = Verdict{
		Decision:           out.Decision,
		Confidence:         out.Confidence,
		CompositeScore:     out.CompositeScore,
		CompositeThreshold: out.CompositeThreshold,
		MeetsGate:          out.MeetsGate,
		Level1Score:        out.Level1Score,
		Level2Score:        out.Level2Score,
		Level3Score:        out.Level3Score,
		Narrative:          out.Narrative,
		GeneratedAt:        s.deps.Now(),
	}
	snap = s.commit(func(sess *Session) {
		committed := v
		committed.Level1Score = cloneFloat(v.Level1Score)
		committed.Level2Score = cloneFloat(v.Level2Score)
		committed.Level3Score = cloneFloat(v.Level3Score)
		sess.Verdict = &committed
		sess.advance(StageVerdictReady)
	})
	metrics.IncVerdict(string(v.Decision), string(v.Confidence))
	s.publishVerdict(ctx, cur.ID, v)
	return v, snap, nil
}

// Reset discards the session and starts a fresh AWAITING_JD one.
func (s *Service) Reset(ctx context.Context) (snap Snapshot, err error) {
	tx, err := s.begin(ctx, OpReset)
	if err != nil {
		return Snapshot{}, err
	}
	defer func() { tx.end(err) }()

	return s.replace(newSession(s.deps.NewID(), s.deps.Now())), nil
}

// Report is an exported document.
type Report struct {
	FileName    string
	ContentType string
	Data        []byte
	ArchiveKey  string
}

// ExportReport renders the current session. It is read-only and does not
// take the transition lock.
func (s *Service) ExportReport(ctx context.Context) (Report, error) {
	snap := s.Snapshot()
	if snap.Resume == nil {
		return Report{}, stateError("evaluate a resume before exporting a report", snap.Stage)
	}

	doc := report.Document{
		CandidateName: snap.CandidateName,
		SessionID:     snap.ID,
		GeneratedAt:   s.deps.Now(),
		Resume: &report.Section{
			Score:     snap.Resume.Score,
			Threshold: snap.Resume.ThresholdUsed,
			Passed:    snap.Resume.Passed,
			Narrative: snap.Resume.Narrative,
		},
	}
	if snap.Profile != nil {
		doc.Profile = &report.Section{
			Score:     snap.Profile.Score,
			Threshold: snap.Profile.ThresholdUsed,
			Passed:    snap.Profile.Passed,
			Narrative: snap.Profile.Narrative,
			Subject:   snap.Profile.ProfileURL,
		}
	}
	if snap.Verdict != nil {
		doc.Verdict = &report.VerdictSection{
			Decision:   string(snap.Verdict.Decision),
			Confidence: string(snap.Verdict.Confidence),
			Composite:  snap.Verdict.CompositeScore,
			Gate:       snap.Verdict.CompositeThreshold,
			Narrative:  snap.Verdict.Narrative,
		}
	}

	data, err := report.Render(doc)
	if err != nil {
		return Report{}, newError(KindInternal, "failed to render report", err)
	}
	out := Report{
		FileName:    report.FileName(snap.CandidateName),
		ContentType: report.ContentType,
		Data:        data,
	}
	out.ArchiveKey = s.archive(ctx, snap.ID, out)
	metrics.IncReportExport()
	telemetry.Info("evaluation.report_exported", map[string]any{
		"session_id":  snap.ID,
		"request_id":  requestIDFromContext(ctx),
		"file_name":   out.FileName,
		"size_bytes":  len(data),
		"archive_key": out.ArchiveKey,
	})
	return out, nil
}

func (s *Service) replace(next *Session) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = next
	return next.clone()
}

// commit applies a mutation and returns the session as committed.
func (s *Service) commit(apply func(*Session)) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	apply(s.session)
	return s.session.clone()
}

func (s *Service) callProvider(ctx context.Context, call func(context.Context) (string, error)) (string, error) {
	pctx, cancel := context.WithTimeout(ctx, s.deps.ProviderTimeout)
	defer cancel()

	out, err := call(pctx)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(pctx.Err(), context.DeadlineExceeded):
			return "", newError(KindGeneration, "analysis provider timed out", err)
		case errors.Is(err, llm.ErrNotConfigured):
			return "", newError(KindGeneration, "analysis provider is not configured", err)
		default:
			return "", newError(KindGeneration, "analysis provider failed", err)
		}
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", newError(KindGeneration, "analysis provider returned no content", llm.ErrEmptyResponse)
	}
	return out, nil
}

func (s *Service) validate(ctx context.Context, identifier string) (identity.Identity, error) {
	if s.deps.Validator == nil {
		metrics.IncValidation("unavailable")
		return identity.Identity{}, newError(KindUnavailable, "identity validation is not configured", identity.ErrValidatorUnavailable)
	}
	vctx, cancel := context.WithTimeout(ctx, s.deps.ValidatorTimeout)
	defer cancel()

	ident, err := s.deps.Validator.Validate(vctx, identifier)
	switch {
	case err == nil && ident.Exists:
		metrics.IncValidation("valid")
		return ident, nil
	case errors.Is(err, identity.ErrMalformedIdentifier):
		metrics.IncValidation("malformed")
		return identity.Identity{}, newError(KindInvalidIdentifier, fmt.Sprintf("%q is not a valid GitHub username or profile URL", identifier), err)
	case err == nil, errors.Is(err, identity.ErrIdentifierNotFound):
		metrics.IncValidation("not_found")
		return identity.Identity{}, newError(KindInvalidIdentifier, fmt.Sprintf("GitHub profile %q does not exist", identifier), err)
	default:
		metrics.IncValidation("unavailable")
		return identity.Identity{}, newError(KindUnavailable, "GitHub profile validation is temporarily unavailable; retry shortly", err)
	}
}

// profileFacts is best-effort: analysis proceeds without facts on failure.
func (s *Service) profileFacts(ctx context.Context, handle string) string {
	if s.deps.Profiles == nil {
		return ""
	}
	fctx, cancel := context.WithTimeout(ctx, s.deps.ValidatorTimeout)
	defer cancel()
	profile, err := s.deps.Profiles.FetchProfile(fctx, handle)
	if err != nil {
		telemetry.Warn("evaluation.profile_facts_failed", map[string]any{
			"identifier": handle,
			"error":      err,
		})
		return ""
	}
	return profile.Summary()
}

func (s *Service) publishVerdict(ctx context.Context, sessionID string, v Verdict) {
	if s.deps.Events == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	event := queue.NewVerdictEvent(queue.VerdictEvent{
		SessionID:      sessionID,
		RequestID:      requestIDFromContext(ctx),
		Decision:       string(v.Decision),
		Confidence:     string(v.Confidence),
		CompositeScore: v.CompositeScore,
		Level1Score:    cloneFloat(v.Level1Score),
		Level2Score:    cloneFloat(v.Level2Score),
		Level3Score:    cloneFloat(v.Level3Score),
		GeneratedAt:    v.GeneratedAt.Format(time.RFC3339),
	})
	if err := s.deps.Events.Send(pctx, event); err != nil {
		telemetry.Warn("evaluation.verdict_publish_failed", map[string]any{
			"session_id": sessionID,
			"error":      err,
		})
	}
}

func (s *Service) archive(ctx context.Context, sessionID string, r Report) string {
	if s.deps.Archive == nil {
		return ""
	}
	key, err := object.ReportKey(sessionID, r.FileName, r.Data, s.deps.Now())
	if err != nil {
		telemetry.Warn("evaluation.report_archive_failed", map[string]any{"session_id": sessionID, "error": err})
		return ""
	}
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	if _, err := s.deps.Archive.Put(actx, key, r.ContentType, bytes.NewReader(r.Data)); err != nil {
		telemetry.Warn("evaluation.report_archive_failed", map[string]any{"session_id": sessionID, "key": key, "error": err})
		return ""
	}
	return key
}

func levelResult(level thresholds.Level, a Artifact) decision.LevelResult {
	return decision.LevelResult{Level: level, Score: a.Score, Threshold: a.ThresholdUsed, Passed: a.Passed}
}

func stateError(message string, stage Stage) *Error {
	return newError(KindState, fmt.Sprintf("%s (current stage %s)", message, stage), nil)
}

// transaction tracks one in-flight stage transition.
type transaction struct {
	s         *Service
	ctx       context.Context
	op        string
	from      Stage
	sessionID string
	start     time.Time
}

func (s *Service) begin(ctx context.Context, op string) (*transaction, error) {
	if !s.transition.TryLock() {
		metrics.IncStageTransition(op, "conflict")
		return nil, newError(KindConflict, "another stage transition is in progress", nil)
	}
	s.mu.RLock()
	from, id := s.session.Stage, s.session.ID
	s.mu.RUnlock()
	return &transaction{s: s, ctx: ctx, op: op, from: from, sessionID: id, start: time.Now()}, nil
}

func (t *transaction) end(err error) {
	defer t.s.transition.Unlock()

	t.s.mu.RLock()
	to, id := t.s.session.Stage, t.s.session.ID
	t.s.mu.RUnlock()

	fields := map[string]any{
		"operation":   t.op,
		"session_id":  id,
		"request_id":  requestIDFromContext(t.ctx),
		"from_stage":  string(t.from),
		"to_stage":    string(to),
		"duration_ms": time.Since(t.start).Milliseconds(),
	}
	if id != t.sessionID {
		fields["previous_session_id"] = t.sessionID
	}
	if err != nil {
		kind := KindOf(err)
		metrics.IncStageTransition(t.op, string(kind))
		fields["error_kind"] = string(kind)
		fields["error"] = err
		telemetry.Warn("evaluation.transition_failed", fields)
		return
	}
	metrics.IncStageTransition(t.op, "ok")
	telemetry.Info("evaluation.transition", fields)
}
