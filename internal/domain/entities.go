// Package domain holds the core entities and ports of the profile analyzer.
package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrEmptyInput        = errors.New("empty input")
	ErrExtractionTimeout = errors.New("extraction timeout")
	ErrInvalidJSON       = errors.New("invalid json")
	ErrSchemaInvalid     = errors.New("schema invalid")
	ErrUpstreamTimeout   = errors.New("upstream timeout")
	ErrUpstreamRateLimit = errors.New("upstream rate limit")
	ErrRateLimited       = errors.New("rate limited")
	ErrNotFound          = errors.New("not found")
	ErrInternal          = errors.New("internal error")
)

// Provenance records how a profile was obtained.
type Provenance string

const (
	ProvenanceParsed    Provenance = "parsed"
	ProvenanceHeuristic Provenance = "heuristic"
)

// Education is one schooling entry of a profile.
type Education struct {
	School     string `json:"school"`
	Degree     string `json:"degree,omitempty"`
	Discipline string `json:"discipline,omitempty"`
	TierHint   string `json:"tier_hint,omitempty"`
}

// BulletMetrics captures explicit quantification attached to a bullet.
type BulletMetrics struct {
	Pct      *float64 `json:"pct,omitempty"`
	Value    *float64 `json:"value,omitempty"`
	Currency string   `json:"currency,omitempty"`
	Multiple *float64 `json:"multiple,omitempty"`
}

// BulletScope captures the scale a bullet claims responsibility over.
type BulletScope struct {
	TeamSize *int     `json:"team_size,omitempty"`
	Budget   *float64 `json:"budget,omitempty"`
	Regions  []string `json:"regions,omitempty"`
}

// Bullet is a single achievement line within a role.
type Bullet struct {
	Text    string         `json:"text" validate:"required"`
	Metrics *BulletMetrics `json:"metrics,omitempty"`
	Scope   *BulletScope   `json:"scope,omitempty"`
}

// Role is one employment entry. Dates are kept as source strings; parsing is
// the consistency detector's concern.
type Role struct {
	Company   string   `json:"company" validate:"required"`
	Title     string   `json:"title,omitempty"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	Location  string   `json:"location,omitempty"`
	Bullets   []Bullet `json:"bullets,omitempty" validate:"dive"`
}

// Key derives the role's identity for cross-referencing: the normalized
// company name plus the start date truncated to at most 7 characters
// (enough for YYYY-MM). Roles slice order itself carries no meaning.
func (r Role) Key() string {
	company := strings.Join(strings.Fields(strings.ToLower(r.Company)), " ")
	start := strings.TrimSpace(r.StartDate)
	if len(start) > 7 {
		start = start[:7]
	}
	return company + "|" + start
}

// TestScores holds standardized-test information (GMAT/GRE).
type TestScores struct {
	Type       string `json:"type,omitempty"`
	Actual     *int   `json:"actual,omitempty"`
	Target     *int   `json:"target,omitempty"`
	Descriptor string `json:"descriptor,omitempty"`
}

// Extracurricular is one activity outside work.
type Extracurricular struct {
	Text       string `json:"text" validate:"required"`
	Leadership bool   `json:"leadership,omitempty"`
	Recency    string `json:"recency,omitempty" validate:"omitempty,oneof=past current"`
}

// International summarizes exposure outside the home market.
type International struct {
	Regions  []string `json:"regions,omitempty"`
	Months   int      `json:"months,omitempty"`
	Evidence []string `json:"evidence,omitempty"`
}

// NormalizedProfile is the structured extraction of a resume. It is a derived,
// immutable, request-scoped value; only the parser's content-hash cache keeps
// it across requests.
type NormalizedProfile struct {
	Education        []Education       `json:"education,omitempty" validate:"dive"`
	Roles            []Role            `json:"roles,omitempty" validate:"dive"`
	Tests            *TestScores       `json:"tests,omitempty"`
	Extracurriculars []Extracurricular `json:"extracurriculars,omitempty" validate:"dive"`
	International    *International    `json:"international,omitempty"`
	Awards           []string          `json:"awards,omitempty"`
}

// Empty reports whether the profile carries no extracted content at all.
func (p NormalizedProfile) Empty() bool {
	return len(p.Education) == 0 && len(p.Roles) == 0 && p.Tests == nil &&
		len(p.Extracurriculars) == 0 && p.International == nil && len(p.Awards) == 0
}

// LedBand is the categorical leadership-scope signal.
type LedBand string

const (
	LedNoneIC   LedBand = "none_ic"
	LedInformal LedBand = "informal"
	Led1To3     LedBand = "led_1_3"
	Led4To10    LedBand = "led_4_10"
	Led10Plus   LedBand = "led_10_plus"
)

// AcademicsSignal covers schooling quality.
type AcademicsSignal struct {
	Tier1          bool `json:"tier1"`
	RigorousDegree bool `json:"rigorous_degree"`
}

// TestSignal covers test readiness. ProvidedAsTargetOnly marks bundles where
// no actual score exists; target-only claims are never proof of readiness.
type TestSignal struct {
	Actual               int    `json:"actual"`
	Target               int    `json:"target"`
	Descriptor           string `json:"descriptor"`
	ProvidedAsTargetOnly bool   `json:"provided_as_target_only"`
}

// ImpactSignal covers measurable work outcomes.
type ImpactSignal struct {
	AnyPct20Plus  bool `json:"any_pct_20_plus"`
	AnyLargeMoney bool `json:"any_large_money"`
	LaunchesCount int  `json:"launches_count"`
}

// LeadershipSignal covers people and organizational leadership.
type LeadershipSignal struct {
	CrossFunctional bool    `json:"cross_functional"`
	LedBand         LedBand `json:"led_band"`
	ExecOffice      bool    `json:"exec_office"`
}

// ECSignal covers extracurricular activity.
type ECSignal struct {
	HasCurrent bool `json:"has_current"`
	Leadership bool `json:"leadership"`
}

// IntlSignal covers international exposure.
type IntlSignal struct {
	RegionsCount int `json:"regions_count"`
	Months       int `json:"months"`
}

// MetaSignal carries coarse candidate classification.
type MetaSignal struct {
	YoEBand      string `json:"yoe_band,omitempty"`
	FunctionArea string `json:"function_area,omitempty"`
}

// SignalBundle is the fused, fixed-shape set of scoring-relevant signals.
// Every field is always present; absent source data maps to the zero default,
// never to an error.
type SignalBundle struct {
	Academics  AcademicsSignal  `json:"academics"`
	Test       TestSignal       `json:"test"`
	Impact     ImpactSignal     `json:"impact"`
	Leadership LeadershipSignal `json:"leadership"`
	EC         ECSignal         `json:"ec"`
	Intl       IntlSignal       `json:"intl"`
	Meta       MetaSignal       `json:"meta"`
	Provenance Provenance       `json:"provenance"`
}

// Band is the qualitative competitiveness label, ordered weakest to strongest.
type Band string

const (
	BandNeedsFocus  Band = "Needs Focus"
	BandEmerging    Band = "Emerging"
	BandCompetitive Band = "Competitive"
	BandStrong      Band = "Strong"
	BandTop10       Band = "Top 10%"
)

// Subscores are the six weighted components of the overall score, each an
// integer clamped to [0,10].
type Subscores struct {
	Academics             int `json:"academics"`
	TestReadiness         int `json:"test_readiness"`
	WorkImpact            int `json:"work_impact"`
	Leadership            int `json:"leadership"`
	Extracurriculars      int `json:"extracurriculars"`
	InternationalExposure int `json:"international_exposure"`
}

// ScoreResult is the deterministic outcome of scoring a SignalBundle.
// Band is a pure, monotonic function of Overall.
type ScoreResult struct {
	Subscores Subscores `json:"subscores"`
	Overall   float64   `json:"overall"`
	Band      Band      `json:"band"`
}

// BulletRef points at one bullet inside the profile's roles slice.
type BulletRef struct {
	RoleIndex   int    `json:"role_index"`
	BulletIndex int    `json:"bullet_index"`
	RoleKey     string `json:"role_key"`
}

// DuplicatePair flags two bullets whose hybrid similarity crossed threshold.
type DuplicatePair struct {
	A          BulletRef `json:"a"`
	B          BulletRef `json:"b"`
	Similarity float64   `json:"similarity"`
	SameRole   bool      `json:"same_role"`
}

// DuplicateSummary aggregates duplicate findings.
type DuplicateSummary struct {
	Count         int     `json:"count"`
	AvgSimilarity float64 `json:"avg_similarity"`
	WithinRole    int     `json:"within_role"`
	CrossRole     int     `json:"cross_role"`
}

// IssueType tags a consistency finding.
type IssueType string

const (
	IssueDateOverlap   IssueType = "date_overlap"
	IssueTenseVsDates  IssueType = "tense_vs_dates"
	IssueClaimConflict IssueType = "claim_conflict"
)

// ConsistencyIssue is one internal-consistency finding.
type ConsistencyIssue struct {
	Type     IssueType  `json:"type"`
	RoleKeys []string   `json:"role_keys,omitempty"`
	Bullet   *BulletRef `json:"bullet,omitempty"`
	Expected string     `json:"expected,omitempty"`
	Detail   string     `json:"detail"`
}

// ConsistencySummary tallies issues per type.
type ConsistencySummary struct {
	DateOverlaps    int `json:"date_overlaps"`
	TenseMismatches int `json:"tense_mismatches"`
	ClaimConflicts  int `json:"claim_conflicts"`
}

// UnitType classifies the kind of number a bullet cites.
type UnitType string

const (
	UnitPercentage UnitType = "percentage"
	UnitCurrency   UnitType = "currency"
	UnitCount      UnitType = "count"
	UnitTimePeriod UnitType = "time_period"
	UnitRatio      UnitType = "ratio"
)

// BulletMetricsInfo is the per-bullet quantification classification.
type BulletMetricsInfo struct {
	Ref      BulletRef  `json:"ref"`
	HasDigit bool       `json:"has_digit"`
	Units    []UnitType `json:"units,omitempty"`
	HasDelta bool       `json:"has_delta"`
}

// MetricsAnalysis quantifies how evidence-backed the bullets are. It feeds
// recommendations, not the score.
type MetricsAnalysis struct {
	PerBullet      []BulletMetricsInfo `json:"per_bullet"`
	DensityByRole  map[string]float64  `json:"density_by_role"`
	OverallDensity float64             `json:"overall_density"`
}

// QualityReport bundles the outputs of the three content-quality detectors.
// It is diagnostic only; the scoring engine never reads it.
type QualityReport struct {
	Duplicates         []DuplicatePair    `json:"duplicates"`
	DuplicateSummary   DuplicateSummary   `json:"duplicate_summary"`
	Issues             []ConsistencyIssue `json:"issues"`
	ConsistencySummary ConsistencySummary `json:"consistency_summary"`
	Metrics            MetricsAnalysis    `json:"metrics"`
}

// Recommendations is the narrative output layer. All five lists are non-empty.
type Recommendations struct {
	Strengths   []string `json:"strengths"`
	Gaps        []string `json:"gaps"`
	Next6Weeks  []string `json:"next_6_weeks"`
	Next90Days  []string `json:"next_90_days"`
	EssayAngles []string `json:"essay_angles"`
}

// AnalyzeContext is the optional caller-supplied coaching context.
type AnalyzeContext struct {
	Goal       string `json:"goal,omitempty"`
	Timeline   string `json:"timeline,omitempty"`
	Tier       string `json:"tier,omitempty"`
	TestStatus string `json:"test_status,omitempty"`
	TopConcern string `json:"top_concern,omitempty"`
}

// AnalyzeResult is the full pipeline output returned to callers. Profile and
// Quality are present only when the structured parse succeeded.
type AnalyzeResult struct {
	ID              string             `json:"analysis_id"`
	Subscores       Subscores          `json:"subscores"`
	Overall         float64            `json:"overall"`
	Band            Band               `json:"band"`
	Recommendations Recommendations    `json:"recommendations"`
	Profile         *NormalizedProfile `json:"profile,omitempty"`
	Quality         *QualityReport     `json:"quality,omitempty"`
	Provenance      Provenance         `json:"provenance"`
	LowConfidence   bool               `json:"low_confidence"`
}

// AIClient (port)
//
// ChatJSON returns a string expected to parse as JSON matching the requested
// schema; callers impose deadlines through ctx. Embed returns fixed-length
// vectors; callers must treat failures as "no match", never propagate them.
type AIClient interface {
	ChatJSON(ctx Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
	Embed(ctx Context, texts []string) ([][]float32, error)
}

// Cache (port) is the process-wide key/value store behind the parser result
// cache and the embedding cache. Implementations bound entries by size and
// TTL so multi-replica deployments can swap in a shared backend.
type Cache interface {
	Get(ctx Context, key string) ([]byte, bool, error)
	Set(ctx Context, key string, value []byte, ttl time.Duration) error
	Len(ctx Context) (int, error)
}

// Context is an alias to decouple the domain package from std context;
// adapters and usecases pass context.Context through.
type Context = context.Context
