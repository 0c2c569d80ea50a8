package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"hiring-backend/internal/evaluations"
	"hiring-backend/internal/extract"
)

type pipelineInput struct {
	JobDescriptionPath string
	ResumePath         string
	Identifier         string
	SkipProfile        bool
	Feedback           []string
	OutPath            string
}

type pipelineSummary struct {
	SessionID     string                       `json:"session_id"`
	CandidateName string                       `json:"candidate_name,omitempty"`
	Resume        *evaluations.Artifact        `json:"resume"`
	Profile       *evaluations.ProfileAnalysis `json:"profile"`
	ProfileError  string                       `json:"profile_error,omitempty"`
	Verdict       *evaluations.Verdict         `json:"verdict"`
	Report        string                       `json:"report"`
}

func runPipeline(ctx context.Context, svc *evaluations.Service, in pipelineInput, out io.Writer) error {
	jd, err := readText(ctx, in.JobDescriptionPath)
	if err != nil {
		return fmt.Errorf("job description: %w", err)
	}
	resume, err := readText(ctx, in.ResumePath)
	if err != nil {
		return fmt.Errorf("resume: %w", err)
	}

	if _, err := svc.SubmitJobDescription(ctx, evaluations.JobDescriptionInput{
		Text:     jd,
		Source:   evaluations.SourceFile,
		FileName: filepath.Base(in.JobDescriptionPath),
	}); err != nil {
		return err
	}
	if _, _, err := svc.GenerateRubric(ctx); err != nil {
		return err
	}
	for _, fb := range in.Feedback {
		if _, _, err := svc.RefineRubric(ctx, fb); err != nil {
			return err
		}
	}
	if _, _, err := svc.EvaluateResume(ctx, resume); err != nil {
		return err
	}

	summary := pipelineSummary{}
	if !in.SkipProfile {
		// A missing or invalid profile only drops level 2 from the verdict.
		if _, _, err := svc.AnalyzeProfile(ctx, in.Identifier); err != nil {
			if evaluations.KindOf(err) == evaluations.KindGeneration || evaluations.KindOf(err) == evaluations.KindConflict {
				return err
			}
			summary.ProfileError = err.Error()
		}
	}

	if _, _, err := svc.GenerateVerdict(ctx); err != nil {
		return err
	}

	rep, err := svc.ExportReport(ctx)
	if err != nil {
		return err
	}
	path := in.OutPath
	if path == "" {
		path = rep.FileName
	}
	if err := os.WriteFile(path, rep.Data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	snap := svc.Snapshot()
	summary.SessionID = snap.ID
	summary.CandidateName = snap.CandidateName
	summary.Resume = snap.Resume
	summary.Profile = snap.Profile
	summary.Verdict = snap.Verdict
	summary.Report = path

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func readText(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", errors.New("path is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	data, err := extract.ReadUpload(f)
	if err != nil {
		return "", err
	}
	return extract.TextFromBytes(ctx, data, "", filepath.Base(path))
}
