package screening

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/shared/server/respond"
	"resume-screener/internal/shared/util"
)

const (
	defaultMaxUploadBytes = 25 << 20 // 25MB
	uploadField           = "files"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches session routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sessions", h.create)
	s := rg.Group("/sessions/:id", h.withSessionID)
	s.GET("", h.get)
	s.DELETE("", h.remove)
	s.PUT("/job-description", h.setJobDescription)
	s.POST("/job-description/enhance", h.enhance)
	s.POST("/resumes", h.upload)
	s.DELETE("/resumes/:name", h.removeResume)
	s.POST("/analyze", h.analyze)
	s.GET("/results", h.results)
	s.POST("/results/:index/email", h.draftEmail)
}

func (h *Handler) withSessionID(c *gin.Context) {
	c.Set("sessionId", c.Param("id"))
	c.Next()
}

func (h *Handler) create(c *gin.Context) {
	sess, err := h.Svc.Store.Create(c.Request.Context())
	if errors.Is(err, ErrStoreFull) {
		respond.Error(c, http.StatusServiceUnavailable, ErrorCodeCapacity, MsgStoreFull, nil)
		return
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to create session", nil)
		return
	}
	c.Set("sessionId", sess.ID)
	respond.JSON(c, http.StatusCreated, sess.View())
}

func (h *Handler) get(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	respond.OK(c, sess.View())
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.Svc.Store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type jobDescriptionRequest struct {
	JobDescription *string `json:"jobDescription"`
}

func (h *Handler) setJobDescription(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req jobDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.JobDescription == nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "jobDescription is required", nil)
		return
	}
	sess.SetJobDescription(*req.JobDescription)
	respond.OK(c, sess.View())
}

func (h *Handler) enhance(c *gin.Context) {
	enhanced, err := h.Svc.Enhance(c.Request.Context(), c.Param("id"))
	if err != nil {
		var upstream *UpstreamError
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "session not found", nil)
		case errors.Is(err, ErrMissingJob):
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, MsgMissingJob, nil)
		case errors.As(err, &upstream):
			respond.Error(c, http.StatusBadGateway, ErrorCodeUpstream, "Failed to enhance: "+upstream.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to enhance job description", nil)
		}
		return
	}
	respond.OK(c, gin.H{"jobDescription": enhanced})
}

func (h *Handler) upload(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodeValidation, "upload is too large", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "multipart form with files is required", nil)
		return
	}
	headers := form.File[uploadField]
	if len(headers) == 0 {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "files are required", nil)
		return
	}
	c.Set("fileCount", len(headers))

	files := make([]ResumeFile, 0, len(headers))
	for _, fh := range headers {
		f, err := readUpload(fh)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unable to read file", gin.H{"fileName": fh.Filename})
			return
		}
		files = append(files, f)
	}

	accepted, rejected := sess.AddResumes(files)
	if accepted == nil {
		accepted = []string{}
	}
	if rejected == nil {
		rejected = []string{}
	}
	respond.OK(c, gin.H{
		"accepted": accepted,
		"rejected": rejected,
		"resumes":  sess.View().Resumes,
	})
}

func readUpload(fh *multipart.FileHeader) (ResumeFile, error) {
	file, err := fh.Open()
	if err != nil {
		return ResumeFile{}, err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return ResumeFile{}, err
	}
	name := util.CleanFileName(fh.Filename)
	if name == "" {
		name = "resume.pdf"
	}
	return ResumeFile{
		Name:        name,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (h *Handler) removeResume(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	removed := sess.RemoveResume(c.Param("name"))
	if removed == 0 {
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "resume not found", nil)
		return
	}
	respond.OK(c, gin.H{"removed": removed, "resumes": sess.View().Resumes})
}

func (h *Handler) analyze(c *gin.Context) {
	if sess, err := h.Svc.Store.Get(c.Request.Context(), c.Param("id")); err == nil {
		c.Set("fileCount", len(sess.View().Resumes))
	}
	results, err := h.Svc.Analyze(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "session not found", nil)
		case errors.Is(err, ErrExtractorUnavailable):
			respond.Error(c, http.StatusServiceUnavailable, ErrorCodeUnavailable, MsgExtractorUnavailable, nil)
		case errors.Is(err, ErrMissingInput):
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, MsgMissingInput, nil)
		case errors.Is(err, ErrRunInProgress):
			respond.Error(c, http.StatusConflict, ErrorCodeConflict, MsgRunInProgress, nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to analyze resumes", nil)
		}
		return
	}
	respond.OK(c, gin.H{"results": toResultViews(results)})
}

func (h *Handler) results(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	respond.OK(c, gin.H{"results": toResultViews(sess.Results())})
}

func (h *Handler) draftEmail(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "index must be an integer", nil)
		return
	}
	draft, err := h.Svc.DraftEmail(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "session or result not found", nil)
		case errors.Is(err, ErrNotEligible):
			respond.Error(c, http.StatusUnprocessableEntity, ErrorCodeValidation, MsgNotEligible, nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to draft email", nil)
		}
		return
	}
	respond.OK(c, draft)
}

func (h *Handler) session(c *gin.Context) (*Session, bool) {
	sess, err := h.Svc.Store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.storeError(c, err)
		return nil, false
	}
	return sess, true
}

func (h *Handler) storeError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "session not found", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to load session", nil)
}

type resultView struct {
	Rank          int       `json:"rank"`
	FileName      string    `json:"fileName"`
	DisplayName   string    `json:"displayName"`
	Analysis      *Analysis `json:"analysis,omitempty"`
	Error         string    `json:"error,omitempty"`
	CanDraftEmail bool      `json:"canDraftEmail"`
}

func toResultViews(results []AnalysisResult) []resultView {
	out := make([]resultView, 0, len(results))
	for i, r := range results {
		name := r.FileName
		if !r.Failed() && r.Analysis.CandidateName != "" {
			name = r.Analysis.CandidateName
		}
		out = append(out, resultView{
			Rank:          i,
			FileName:      r.FileName,
			DisplayName:   name,
			Analysis:      r.Analysis,
			Error:         r.Error,
			CanDraftEmail: r.CanDraftEmail(),
		})
	}
	return out
}
