package evaluations

import (
	"time"

	"hiring-backend/internal/decision"
	"hiring-backend/internal/identity"
)

// Stage is the session's position in the evaluation pipeline.
type Stage string

const (
	StageAwaitingJD      Stage = "AWAITING_JD"
	StageRubricReady     Stage = "RUBRIC_READY"
	StageResumeEvaluated Stage = "RESUME_EVALUATED"
	StageProfileAnalyzed Stage = "PROFILE_ANALYZED"
	StageVerdictReady    Stage = "VERDICT_READY"
)

var stageOrder = map[Stage]int{
	StageAwaitingJD:      0,
	StageRubricReady:     1,
	StageResumeEvaluated: 2,
	StageProfileAnalyzed: 3,
	StageVerdictReady:    4,
}

// Rank is the stage's position in the forward order.
func (s Stage) Rank() int {
	if r, ok := stageOrder[s]; ok {
		return r
	}
	return -1
}

func (s Stage) in(allowed ...Stage) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}

type Source string

const (
	SourceText Source = "text"
	SourceFile Source = "file"
)

const MaxScore = 10.0

type JobDescription struct {
	RawText     string    `json:"raw_text"`
	Source      Source    `json:"source"`
	FileName    string    `json:"file_name,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type Rubric struct {
	Text        string    `json:"text"`
	GeneratedAt time.Time `json:"generated_at"`
	Refinements int       `json:"refinements"`
}

// Artifact is a normalized per-level evaluation. Passed and ThresholdUsed are
// frozen when the artifact is created.
type Artifact struct {
	Score              float64   `json:"score"`
	MaxScore           float64   `json:"max_score"`
	Passed             bool      `json:"passed"`
	Narrative          string    `json:"narrative"`
	ThresholdUsed      float64   `json:"threshold_used"`
	DetectedIdentifier *string   `json:"detected_identifier"`
	CreatedAt          time.Time `json:"created_at"`
}

// ProfileAnalysis is an artifact keyed by a validated identifier.
type ProfileAnalysis struct {
	Artifact
	Identifier string `json:"identifier"`
	ProfileURL string `json:"profile_url"`
}

type Verdict struct {
	Decision           decision.Decision   `json:"decision"`
	Confidence         decision.Confidence `json:"confidence"`
	CompositeScore     float64             `json:"composite_score"`
	CompositeThreshold float64             `json:"composite_threshold"`
	MeetsGate          bool                `json:"meets_composite_gate"`
	Level1Score        *float64            `json:"level_1_score"`
	Level2Score        *float64            `json:"level_2_score"`
	Level3Score        *float64            `json:"level_3_score"`
	Narrative          string              `json:"narrative"`
	GeneratedAt        time.Time           `json:"generated_at"`
}

// Session is the single live evaluation aggregate. Only Service mutates it;
// everything else sees a Snapshot.
type Session struct {
	ID             string           `json:"session_id"`
	CreatedAt      time.Time        `json:"created_at"`
	Stage          Stage            `json:"stage"`
	JobDescription *JobDescription  `json:"job_description"`
	Rubric         *Rubric          `json:"rubric"`
	Resume         *Artifact        `json:"resume"`
	ResumeText     string           `json:"-"`
	CandidateName  string           `json:"candidate_name,omitempty"`
	Profile        *ProfileAnalysis `json:"profile"`
	Verdict        *Verdict         `json:"verdict"`
}

// Snapshot is a deep copy of a Session.
type Snapshot = Session

// advance moves the session to stage unless it is already at or past it.
func (s *Session) advance(stage Stage) {
	if stage.Rank() > s.Stage.Rank() {
		s.Stage = stage
	}
}

func newSession(id string, now time.Time) *Session {
	return &Session{ID: id, CreatedAt: now, Stage: StageAwaitingJD}
}

func newProfileAnalysis(id identity.Identity, art Artifact) (ProfileAnalysis, error) {
	if !id.Exists || id.Canonical == "" {
		return ProfileAnalysis{}, newError(KindInvalidIdentifier, "profile identifier was not validated", identity.ErrIdentifierNotFound)
	}
	url := id.ProfileURL
	if url == "" {
		url = identity.ProfileURL(id.Canonical)
	}
	return ProfileAnalysis{Artifact: art, Identifier: id.Canonical, ProfileURL: url}, nil
}

func (s *Session) clone() Snapshot {
	out := *s
	if s.JobDescription != nil {
		jd := *s.JobDescription
		out.JobDescription = &jd
	}
	if s.Rubric != nil {
		r := *s.Rubric
		out.Rubric = &r
	}
	if s.Resume != nil {
		a := cloneArtifact(*s.Resume)
		out.Resume = &a
	}
	if s.Profile != nil {
		p := *s.Profile
		p.Artifact = cloneArtifact(s.Profile.Artifact)
		out.Profile = &p
	}
	if s.Verdict != nil {
		v := *s.Verdict
		v.Level1Score = cloneFloat(s.Verdict.Level1Score)
		v.Level2Score = cloneFloat(s.Verdict.Level2Score)
		v.Level3Score = cloneFloat(s.Verdict.Level3Score)
		out.Verdict = &v
	}
	return out
}

func cloneArtifact(a Artifact) Artifact {
	if a.DetectedIdentifier != nil {
		id := *a.DetectedIdentifier
		a.DetectedIdentifier = &id
	}
	return a
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
