package evaluations

type jobDescriptionTextRequest struct {
	Text string `json:"text"`
}

type refineRubricRequest struct {
	Feedback string `json:"feedback"`
}

type resumeTextRequest struct {
	Text string `json:"text"`
}

type analyzeProfileRequest struct {
	Identifier string `json:"identifier"`
}

type jobDescriptionResponse struct {
	SessionID      string          `json:"session_id"`
	Stage          Stage           `json:"stage"`
	JobDescription *JobDescription `json:"job_description"`
}

type rubricResponse struct {
	Stage  Stage  `json:"stage"`
	Rubric Rubric `json:"rubric"`
}

type resumeResponse struct {
	Stage         Stage    `json:"stage"`
	CandidateName string   `json:"candidate_name,omitempty"`
	Resume        Artifact `json:"resume"`
}

type profileResponse struct {
	Stage   Stage           `json:"stage"`
	Profile ProfileAnalysis `json:"profile"`
}

type verdictResponse struct {
	Stage   Stage   `json:"stage"`
	Verdict Verdict `json:"verdict"`
}
