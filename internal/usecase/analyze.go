// Package usecase orchestrates the analysis pipeline: normalization, guarded
// parsing, quality detectors, signal enrichment, scoring, and
// recommendations, with an optional remote analyzer tried first.
package usecase

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/adapter/observability"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/analysis/detect"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/analysis/enrich"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/analysis/recommend"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/analysis/scoring"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/analysis/textnorm"
	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
)

// ProfileParser is the guarded structured parser port.
type ProfileParser interface {
	Parse(ctx domain.Context, text string) (*domain.NormalizedProfile, error)
}

// SynonymNormalizer is the vocabulary canonicalization port.
type SynonymNormalizer interface {
	Normalize(ctx domain.Context, text string) string
}

// RemoteAnalyzer is the external analysis service port. The local pipeline is
// its structurally compatible fallback.
type RemoteAnalyzer interface {
	Analyze(ctx domain.Context, resumeText string, actx domain.AnalyzeContext) (*domain.AnalyzeResult, error)
}

// Analyze runs the full pipeline for one resume.
type Analyze struct {
	parser   ProfileParser
	synonyms SynonymNormalizer
	remote   RemoteAnalyzer // nil when no remote service is configured
	now      func() time.Time
}

// NewAnalyze wires the pipeline. synonyms and remote may be nil.
func NewAnalyze(parser ProfileParser, synonyms SynonymNormalizer, remote RemoteAnalyzer) Analyze {
	return Analyze{
		parser:   parser,
		synonyms: synonyms,
		remote:   remote,
		now:      time.Now,
	}
}

// Execute analyzes resume text with optional coaching context. It never
// returns an error for resume content problems: empty input yields an
// explicit low-confidence default, parse failures degrade to heuristics.
func (a Analyze) Execute(ctx domain.Context, resumeText string, actx domain.AnalyzeContext) (domain.AnalyzeResult, error) {
	id := uuid.NewString()

	normalized := textnorm.Normalize(resumeText)
	if normalized == "" {
		slog.Info("analysis short-circuited on empty input", slog.String("analysis_id", id))
		return a.emptyInputResult(id), nil
	}

	if a.remote != nil {
		if res, err := a.remote.Analyze(ctx, normalized, actx); err == nil && res != nil {
			res.ID = id
			observability.ObserveAnalysis(res.Overall, string(res.Band))
			return *res, nil
		} else if err != nil {
			slog.Warn("remote analyzer unavailable, using local pipeline",
				slog.String("analysis_id", id),
				slog.Any("error", err))
		}
	}

	canonical := normalized
	if a.synonyms != nil {
		canonical = a.synonyms.Normalize(ctx, normalized)
	}

	profile, err := a.parser.Parse(ctx, canonical)
	if err != nil {
		slog.Info("structured parse unavailable, scoring on heuristics",
			slog.String("analysis_id", id),
			slog.Any("error", err))
	}

	var (
		input   enrich.Input
		quality *domain.QualityReport
	)
	if profile != nil {
		input = enrich.Structured(profile)
		quality = a.qualityReport(profile)
	} else {
		input = enrich.Flattened(canonical)
	}

	bundle := enrich.Enrich(input, deriveMeta(profile, actx, a.now()))
	score := scoring.Score(bundle)
	recs := recommend.Generate(score)
	observability.ObserveAnalysis(score.Overall, string(score.Band))

	return domain.AnalyzeResult{
		ID:              id,
		Subscores:       score.Subscores,
		Overall:         score.Overall,
		Band:            score.Band,
		Recommendations: recs,
		Profile:         profile,
		Quality:         quality,
		Provenance:      bundle.Provenance,
		LowConfidence:   false,
	}, nil
}

// emptyInputResult is the fixed default for empty resumes: baseline subscores,
// an explicit low-confidence marker, and no external calls made.
func (a Analyze) emptyInputResult(id string) domain.AnalyzeResult {
	score := scoring.Score(domain.SignalBundle{Provenance: domain.ProvenanceHeuristic})
	observability.ObserveAnalysis(score.Overall, string(score.Band))
	return domain.AnalyzeResult{
		ID:              id,
		Subscores:       score.Subscores,
		Overall:         score.Overall,
		Band:            score.Band,
		Recommendations: recommend.Generate(score),
		Provenance:      domain.ProvenanceHeuristic,
		LowConfidence:   true,
	}
}

func (a Analyze) qualityReport(profile *domain.NormalizedProfile) *domain.QualityReport {
	duplicates, dupSummary := detect.Duplicates(profile)
	issues, consSummary := detect.Consistency(profile, a.now())
	return &domain.QualityReport{
		Duplicates:         duplicates,
		DuplicateSummary:   dupSummary,
		Issues:             issues,
		ConsistencySummary: consSummary,
		Metrics:            detect.Metrics(profile),
	}
}

// deriveMeta fills the coarse meta signal: function area from the caller's
// stated goal, years-of-experience band from the earliest parsed start date.
func deriveMeta(profile *domain.NormalizedProfile, actx domain.AnalyzeContext, now time.Time) domain.MetaSignal {
	meta := domain.MetaSignal{FunctionArea: actx.Goal}
	if profile == nil {
		return meta
	}
	earliest := time.Time{}
	for _, role := range profile.Roles {
		if start, ok := detect.ParseRoleDate(role.StartDate, now); ok {
			if earliest.IsZero() || start.Before(earliest) {
				earliest = start
			}
		}
	}
	if earliest.IsZero() {
		return meta
	}
	years := now.Sub(earliest).Hours() / (24 * 365.25)
	switch {
	case years < 3:
		meta.YoEBand = "0-2"
	case years < 6:
		meta.YoEBand = "3-5"
	case years < 9:
		meta.YoEBand = "6-8"
	default:
		meta.YoEBand = "9+"
	}
	return meta
}
