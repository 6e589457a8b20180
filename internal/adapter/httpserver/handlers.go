package httpserver

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/usecase"
)

// DefaultMaxUploadBytes bounds resume uploads when no limit is configured;
// resumes are text, anything bigger is not a resume.
const DefaultMaxUploadBytes = 1 << 20

// Server carries the handler dependencies.
type Server struct {
	analyze   usecase.Analyze
	validate  *validator.Validate
	maxUpload int64
}

// NewServer builds the handler set around the analyze usecase. maxUploadBytes
// caps request bodies on both analyze paths; zero or negative selects the
// default.
func NewServer(analyze usecase.Analyze, maxUploadBytes int64) *Server {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Server{
		analyze:   analyze,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		maxUpload: maxUploadBytes,
	}
}

type analyzeRequest struct {
	ResumeText string                `json:"resume_text" validate:"max=200000"`
	Context    domain.AnalyzeContext `json:"context" validate:"omitempty"`
}

// AnalyzeHandler runs the pipeline on a JSON request body. Empty resume text
// is a valid request and yields an explicit low-confidence result.
func (s *Server) AnalyzeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, s.maxUpload)).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("decode request: %w", domain.ErrInvalidJSON), nil)
			return
		}
		if err := s.validate.Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %s", domain.ErrInvalidArgument, "request validation failed"), err.Error())
			return
		}

		res, err := s.analyze.Execute(r.Context(), req.ResumeText, req.Context)
		if err != nil {
			LoggerFrom(r).Error("analysis failed", slog.Any("error", err))
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// UploadHandler accepts a multipart form with a plain-text resume file and
// optional context fields, then runs the same pipeline.
func (s *Server) UploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
		if err := r.ParseMultipartForm(s.maxUpload); err != nil {
			writeError(w, r, fmt.Errorf("%w: multipart form too large or malformed", domain.ErrInvalidArgument), nil)
			return
		}

		file, _, err := r.FormFile("resume")
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: missing resume file field", domain.ErrInvalidArgument), nil)
			return
		}
		defer func() { _ = file.Close() }()

		content, err := io.ReadAll(io.LimitReader(file, s.maxUpload))
		if err != nil {
			writeError(w, r, fmt.Errorf("read upload: %w", domain.ErrInternal), nil)
			return
		}

		mt := mimetype.Detect(content)
		if !mt.Is("text/plain") {
			writeError(w, r,
				fmt.Errorf("%w: unsupported upload type %s, plain text required", domain.ErrInvalidArgument, mt.String()), nil)
			return
		}

		actx := domain.AnalyzeContext{
			Goal:       r.FormValue("goal"),
			Timeline:   r.FormValue("timeline"),
			Tier:       r.FormValue("tier"),
			TestStatus: r.FormValue("test_status"),
			TopConcern: r.FormValue("top_concern"),
		}
		res, err := s.analyze.Execute(r.Context(), string(content), actx)
		if err != nil {
			LoggerFrom(r).Error("analysis failed", slog.Any("error", err))
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
