package calculation

import (
	"github.com/elderplan/carefund/internal/domain"
	"github.com/google/uuid"
)

// Logger is the minimal logging contract the engine needs. Callers plug in
// whatever backend they run with; the engine defaults to a no-op.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards all log output.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

// Namespace for deriving assessment ids from input fingerprints. The id is
// a v5 UUID of the fingerprint, so identical inputs under the same rules
// version yield an identical result, byte for byte.
var assessmentNamespace = uuid.MustParse("8f1c9d4e-3b72-4a06-9c1f-5e2da7b61c84")

// Engine orchestrates the four funding calculations for one assessment
// request. It holds no per-request state; concurrent assessments are fully
// independent.
type Engine struct {
	Logger Logger
	Cache  *ResultCache
}

// NewEngine creates an engine with no-op logging and no cache.
func NewEngine() *Engine {
	return &Engine{Logger: NopLogger{}}
}

// SetLogger replaces the engine's logger. A nil logger restores the no-op.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// SetCache attaches an optional result cache.
func (e *Engine) SetCache(c *ResultCache) {
	e.Cache = c
}

// Assess validates the request and runs the scoring, means-test,
// deferred-payment, and projection engines against one rules version.
// Pure apart from the optional memoization: the assessed-at stamp comes from
// the request's as-of date, never the system clock.
func (e *Engine) Assess(req *domain.AssessmentRequest, rc *domain.RulesConfig) (*domain.AssessmentResult, error) {
	if rc == nil {
		return nil, domain.NewConfigurationError("rules", "no rules configuration supplied")
	}
	if err := ValidateRequest(req, rc); err != nil {
		return nil, err
	}

	fingerprint, err := Fingerprint(req, rc.Version())
	if err != nil {
		return nil, err
	}
	if e.Cache != nil {
		if cached, ok := e.Cache.Get(fingerprint); ok {
			e.Logger.Debugf("assessment served from cache (rules %s)", rc.Version())
			return cached, nil
		}
	}

	chc, err := ScoreNeeds(req.NeedsProfile(), rc)
	if err != nil {
		return nil, err
	}

	means, err := RunMeansTest(req.FinancialProfile(), req.WeeklyCareCost, req.AsOfDate, req.AdmissionDate, rc)
	if err != nil {
		return nil, err
	}

	dpa, err := AssessDPA(req.Property, req.DeferredWeekly(), rc)
	if err != nil {
		return nil, err
	}

	projections, err := BuildProjections(chc, means, dpa, req.WeeklyCareCost, rc)
	if err != nil {
		return nil, err
	}

	result := &domain.AssessmentResult{
		AssessmentID: uuid.NewSHA1(assessmentNamespace, []byte(fingerprint)).String(),
		RulesVersion: rc.Version(),
		CHC:          *chc,
		LA:           *means,
		DPA:          *dpa,
		Projections:  *projections,
		AssessedAt:   req.AsOfDate,
	}

	if e.Cache != nil {
		e.Cache.Put(fingerprint, result)
	}

	e.Logger.Infof("assessment %s complete: chc=%d%% la=%s recommended=%s",
		result.AssessmentID, chc.ProbabilityPercent, means.FundingLevel, projections.RecommendedScenario)
	return result, nil
}
