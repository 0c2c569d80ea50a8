package evaluations

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hiring-backend/internal/extract"
	"hiring-backend/internal/shared/server/middleware"
	"hiring-backend/internal/shared/server/respond"
	"hiring-backend/internal/shared/util"
)

// Handler wires HTTP handlers to the evaluation service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches session routes to rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jd/upload-text", h.submitJobDescriptionText)
	rg.POST("/jd/upload-file", h.submitJobDescriptionFile)
	rg.POST("/rubric/generate", h.generateRubric)
	rg.GET("/rubric/current", h.currentRubric)
	rg.POST("/rubric/refine", h.refineRubric)
	rg.POST("/resume/evaluate-text", h.evaluateResumeText)
	rg.POST("/resume/evaluate-file", h.evaluateResumeFile)
	rg.POST("/github/analyze", h.analyzeProfile)
	rg.POST("/verdict/generate", h.generateVerdict)
	rg.GET("/verdict/current", h.currentVerdict)
	rg.GET("/session", h.session)
	rg.GET("/export/pdf", h.exportPDF)
	rg.POST("/reset", h.reset)
}

func (h *Handler) submitJobDescriptionText(c *gin.Context) {
	var req jobDescriptionTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, string(KindValidation), "invalid request body", nil)
		return
	}
	snap, err := h.Svc.SubmitJobDescription(h.ctx(c, OpSubmitJobDescription), JobDescriptionInput{Text: req.Text, Source: SourceText})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set(middleware.SessionIDKey, snap.ID)
	respond.OK(c, jobDescriptionResponse{SessionID: snap.ID, Stage: snap.Stage, JobDescription: snap.JobDescription})
}

func (h *Handler) submitJobDescriptionFile(c *gin.Context) {
	text, fileName, ok := h.uploadedText(c)
	if !ok {
		return
	}
	snap, err := h.Svc.SubmitJobDescription(h.ctx(c, OpSubmitJobDescription), JobDescriptionInput{
		Text:     text,
		Source:   SourceFile,
		FileName: fileName,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set(middleware.SessionIDKey, snap.ID)
	respond.OK(c, jobDescriptionResponse{SessionID: snap.ID, Stage: snap.Stage, JobDescription: snap.JobDescription})
}

func (h *Handler) generateRubric(c *gin.Context) {
	rubric, snap, err := h.Svc.GenerateRubric(h.ctx(c, OpGenerateRubric))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, rubricResponse{Stage: snap.Stage, Rubric: rubric})
}

func (h *Handler) currentRubric(c *gin.Context) {
	snap := h.snapshot(c)
	if snap.Rubric == nil {
		h.fail(c, stateError("no rubric has been generated", snap.Stage))
		return
	}
	respond.OK(c, rubricResponse{Stage: snap.Stage, Rubric: *snap.Rubric})
}

func (h *Handler) refineRubric(c *gin.Context) {
	var req refineRubricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, string(KindValidation), "invalid request body", nil)
		return
	}
	rubric, snap, err := h.Svc.RefineRubric(h.ctx(c, OpRefineRubric), req.Feedback)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, rubricResponse{Stage: snap.Stage, Rubric: rubric})
}

func (h *Handler) evaluateResumeText(c *gin.Context) {
	var req resumeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, string(KindValidation), "invalid request body", nil)
		return
	}
	h.evaluateResume(c, req.Text)
}

func (h *Handler) evaluateResumeFile(c *gin.Context) {
	text, _, ok := h.uploadedText(c)
	if !ok {
		return
	}
	h.evaluateResume(c, text)
}

func (h *Handler) evaluateResume(c *gin.Context, text string) {
	art, snap, err := h.Svc.EvaluateResume(h.ctx(c, OpEvaluateResume), text)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, resumeResponse{Stage: snap.Stage, CandidateName: snap.CandidateName, Resume: art})
}

func (h *Handler) analyzeProfile(c *gin.Context) {
	var req analyzeProfileRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, string(KindValidation), "invalid request body", nil)
			return
		}
	}
	pa, snap, err := h.Svc.AnalyzeProfile(h.ctx(c, OpAnalyzeProfile), req.Identifier)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, profileResponse{Stage: snap.Stage, Profile: pa})
}

func (h *Handler) generateVerdict(c *gin.Context) {
	v, snap, err := h.Svc.GenerateVerdict(h.ctx(c, OpGenerateVerdict))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, verdictResponse{Stage: snap.Stage, Verdict: v})
}

func (h *Handler) currentVerdict(c *gin.Context) {
	snap := h.snapshot(c)
	if snap.Verdict == nil {
		h.fail(c, stateError("no verdict has been generated", snap.Stage))
		return
	}
	respond.OK(c, verdictResponse{Stage: snap.Stage, Verdict: *snap.Verdict})
}

func (h *Handler) session(c *gin.Context) {
	respond.OK(c, h.snapshot(c))
}

func (h *Handler) exportPDF(c *gin.Context) {
	h.snapshot(c)
	rep, err := h.Svc.ExportReport(WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c)))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.Attachment(c, rep.FileName, rep.ContentType, rep.Data)
}

func (h *Handler) reset(c *gin.Context) {
	snap, err := h.Svc.Reset(h.ctx(c, OpReset))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set(middleware.SessionIDKey, snap.ID)
	respond.OK(c, snap)
}

func (h *Handler) uploadedText(c *gin.Context) (string, string, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, string(KindValidation), "file is required", nil)
		return "", "", false
	}
	fileName, err := util.SanitizeFileName(fileHeader.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, string(KindValidation), err.Error(), nil)
		return "", "", false
	}
	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, string(KindValidation), "unable to read file", nil)
		return "", "", false
	}
	defer f.Close()

	data, err := extract.ReadUpload(f)
	if err != nil {
		if errors.Is(err, extract.ErrTooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, string(KindValidation), err.Error(), nil)
			return "", "", false
		}
		respond.Error(c, http.StatusBadRequest, string(KindValidation), "unable to read file", nil)
		return "", "", false
	}
	text, err := extract.TextFromBytes(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"), fileName)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedType):
			respond.Error(c, http.StatusUnsupportedMediaType, string(KindValidation), "supported formats are PDF, DOCX and plain text", nil)
		case errors.Is(err, extract.ErrTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, string(KindValidation), err.Error(), nil)
		default:
			respond.Error(c, http.StatusBadRequest, string(KindValidation), "no text could be extracted from the file", nil)
		}
		return "", "", false
	}
	return text, fileName, true
}

// ctx tags the request log with the session and operation.
func (h *Handler) ctx(c *gin.Context, op string) context.Context {
	c.Set(middleware.SessionIDKey, h.Svc.Snapshot().ID)
	c.Set(middleware.StageTransitionKey, op)
	return WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
}

func (h *Handler) snapshot(c *gin.Context) Snapshot {
	snap := h.Svc.Snapshot()
	c.Set(middleware.SessionIDKey, snap.ID)
	return snap
}

func (h *Handler) fail(c *gin.Context, err error) {
	kind := KindOf(err)
	message := "internal error"
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		message = e.Message
	}
	respond.Error(c, HTTPStatus(kind), string(kind), message, gin.H{"stage": h.Svc.Snapshot().Stage})
}
