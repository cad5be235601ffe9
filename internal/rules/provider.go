package rules

import (
	"fmt"
	"os"
	"sync"

	"github.com/elderplan/carefund/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Provider loads and holds versioned rules configurations. Each load parses
// a fresh object (copy-on-load); a config handed out is never mutated, so
// activating a newer version cannot disturb in-flight computations.
type Provider struct {
	mu       sync.RWMutex
	versions map[string]*domain.RulesConfig
	active   string
}

// NewProvider creates an empty rules provider.
func NewProvider() *Provider {
	return &Provider{versions: make(map[string]*domain.RulesConfig)}
}

// LoadFromFile parses, validates, registers, and activates a rules file.
func (p *Provider) LoadFromFile(filename string) (*domain.RulesConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", filename, err)
	}
	return p.Load(data)
}

// Load parses and validates raw YAML, registers the version, and makes it
// the active version.
func (p *Provider) Load(data []byte) (*domain.RulesConfig, error) {
	rc, err := Parse(data)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.versions[rc.Version()] = rc
	p.active = rc.Version()
	return rc, nil
}

// Active returns the currently active rules configuration.
func (p *Provider) Active() (*domain.RulesConfig, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.active == "" {
		return nil, domain.NewConfigurationError("rules", "no rules configuration loaded")
	}
	return p.versions[p.active], nil
}

// Version returns a previously loaded rules configuration by version id.
func (p *Provider) Version(id string) (*domain.RulesConfig, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	rc, ok := p.versions[id]
	return rc, ok
}

// Activate switches the active version to a previously loaded one.
func (p *Provider) Activate(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.versions[id]; !ok {
		return domain.NewConfigurationError("rules.version", "unknown rules version %q", id)
	}
	p.active = id
	return nil
}

// Parse unmarshals and validates a rules configuration without registering it.
func Parse(data []byte) (*domain.RulesConfig, error) {
	var rc domain.RulesConfig
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse rules YAML: %w", err)
	}
	if err := Validate(&rc); err != nil {
		return nil, err
	}
	return &rc, nil
}

// Validate checks that every field the engines depend on is present and
// coherent. A missing field is a ConfigurationError naming the field, never
// a silent default.
func Validate(rc *domain.RulesConfig) error {
	if rc.Metadata.Version == "" {
		return domain.NewConfigurationError("metadata.version", "rules version identifier is required")
	}

	if err := validateDomainScores(rc); err != nil {
		return err
	}
	if err := validateScoring(rc); err != nil {
		return err
	}
	if err := validateBonusRules(rc); err != nil {
		return err
	}
	if err := validateProbabilityBands(rc); err != nil {
		return err
	}
	if err := validateMeansTest(rc); err != nil {
		return err
	}
	if err := validateDPA(rc); err != nil {
		return err
	}
	return validateProjection(rc)
}

func validateDomainScores(rc *domain.RulesConfig) error {
	if len(rc.DomainScores) == 0 {
		return domain.NewConfigurationError("domain_scores", "domain score table is required")
	}
	for d := range rc.DomainScores {
		if !domain.ValidDomain(d) {
			return domain.NewConfigurationError("domain_scores", "unknown domain %q in score table", d)
		}
	}
	for _, d := range domain.AllDomains {
		table, ok := rc.DomainScores[d]
		if !ok {
			return domain.NewConfigurationError(fmt.Sprintf("domain_scores.%s", d), "score table missing domain")
		}
		for s := domain.SeverityNone; s <= domain.SeverityPriority; s++ {
			pts, ok := table.Points(s)
			if !ok {
				return domain.NewConfigurationError(
					fmt.Sprintf("domain_scores.%s.%s", d, s.Key()), "score table missing severity")
			}
			if pts.IsNegative() {
				return domain.NewConfigurationError(
					fmt.Sprintf("domain_scores.%s.%s", d, s.Key()), "points cannot be negative")
			}
		}
		for key := range table {
			if _, err := domain.ParseSeverity(key); err != nil {
				return domain.NewConfigurationError(
					fmt.Sprintf("domain_scores.%s.%s", d, key), "unknown severity in score table")
			}
		}
	}
	return nil
}

func validateScoring(rc *domain.RulesConfig) error {
	if rc.Scoring.MaxScore.LessThanOrEqual(decimal.Zero) {
		return domain.NewConfigurationError("scoring.max_score", "max score must be positive")
	}
	if rc.Scoring.MaxKeyFactors <= 0 {
		return domain.NewConfigurationError("scoring.max_key_factors", "max key factors must be positive")
	}
	return nil
}

func validateBonusRules(rc *domain.RulesConfig) error {
	for i, rule := range rc.BonusRules {
		path := fmt.Sprintf("bonus_rules[%d]", i)
		if rule.Name == "" {
			return domain.NewConfigurationError(path+".name", "bonus rule name is required")
		}
		if rule.Points.IsNegative() {
			return domain.NewConfigurationError(path+".points", "bonus points cannot be negative")
		}
		if err := validateCondition(path+".when", rule.When); err != nil {
			return err
		}
	}
	return nil
}

func validateCondition(path string, c domain.BonusCondition) error {
	switch c.Kind {
	case domain.ConditionFlag:
		if c.Flag == "" {
			return domain.NewConfigurationError(path+".flag", "flag condition requires a flag name")
		}
	case domain.ConditionDomainAtLeast:
		if !domain.ValidDomain(c.Domain) {
			return domain.NewConfigurationError(path+".domain", "unknown domain %q", c.Domain)
		}
		if _, err := domain.ParseSeverity(c.Severity); err != nil {
			return domain.NewConfigurationError(path+".severity", "unknown severity %q", c.Severity)
		}
	case domain.ConditionCountAtLeast:
		if c.Count <= 0 {
			return domain.NewConfigurationError(path+".count", "count must be positive")
		}
		if _, err := domain.ParseSeverity(c.Severity); err != nil {
			return domain.NewConfigurationError(path+".severity", "unknown severity %q", c.Severity)
		}
	case domain.ConditionAllOf:
		if len(c.AllOf) == 0 {
			return domain.NewConfigurationError(path+".all_of", "all_of requires at least one condition")
		}
		for i, sub := range c.AllOf {
			if err := validateCondition(fmt.Sprintf("%s.all_of[%d]", path, i), sub); err != nil {
				return err
			}
		}
	default:
		return domain.NewConfigurationError(path+".kind", "unknown condition kind %q", c.Kind)
	}
	return nil
}

func validateProbabilityBands(rc *domain.RulesConfig) error {
	if len(rc.ProbabilityBands) == 0 {
		return domain.NewConfigurationError("probability_bands", "at least one probability band is required")
	}
	prevMax := decimal.Zero
	for i, band := range rc.ProbabilityBands {
		path := fmt.Sprintf("probability_bands[%d]", i)
		if band.ScoreMax.LessThan(band.ScoreMin) {
			return domain.NewConfigurationError(path, "score_max must be >= score_min")
		}
		if i == 0 {
			if !band.ScoreMin.IsZero() {
				return domain.NewConfigurationError(path+".score_min", "first band must start at 0")
			}
		} else if !band.ScoreMin.Equal(prevMax) {
			return domain.NewConfigurationError(path+".score_min",
				"bands must be contiguous: expected %s, got %s", prevMax, band.ScoreMin)
		}
		if band.PercentMin.IsNegative() || band.PercentMax.LessThan(band.PercentMin) {
			return domain.NewConfigurationError(path, "percent range must be ordered and non-negative")
		}
		prevMax = band.ScoreMax
	}
	if !prevMax.Equal(rc.Scoring.MaxScore) {
		return domain.NewConfigurationError("probability_bands",
			"bands must cover scores up to max_score %s, got %s", rc.Scoring.MaxScore, prevMax)
	}
	return nil
}

func validateMeansTest(rc *domain.RulesConfig) error {
	cl := rc.CapitalLimits
	if cl.UpperLimit.LessThanOrEqual(decimal.Zero) {
		return domain.NewConfigurationError("capital_limits.upper_limit", "upper capital limit must be positive")
	}
	if cl.LowerLimit.IsNegative() {
		return domain.NewConfigurationError("capital_limits.lower_limit", "lower capital limit cannot be negative")
	}
	if cl.UpperLimit.LessThan(cl.LowerLimit) {
		return domain.NewConfigurationError("capital_limits", "upper limit cannot be below lower limit")
	}
	if cl.TariffDivisor.LessThanOrEqual(decimal.Zero) {
		return domain.NewConfigurationError("capital_limits.tariff_divisor", "tariff divisor must be positive")
	}
	if rc.IncomeAllowances.PersonalExpensesAllowance.IsNegative() {
		return domain.NewConfigurationError("income_allowances.personal_expenses_allowance", "allowance cannot be negative")
	}
	if rc.Disregards.PropertyDisregardWeeks < 0 {
		return domain.NewConfigurationError("disregards.property_disregard_weeks", "window cannot be negative")
	}
	return nil
}

func validateDPA(rc *domain.RulesConfig) error {
	dpa := rc.DPAParameters
	if dpa.MinimumEquity.IsNegative() {
		return domain.NewConfigurationError("dpa_parameters.minimum_equity", "minimum equity cannot be negative")
	}
	if dpa.MaxDeferralPercent.LessThanOrEqual(decimal.Zero) || dpa.MaxDeferralPercent.GreaterThan(decimal.NewFromInt(1)) {
		return domain.NewConfigurationError("dpa_parameters.max_deferral_percent", "must be between 0 and 1")
	}
	if dpa.AnnualInterestRate.IsNegative() {
		return domain.NewConfigurationError("dpa_parameters.annual_interest_rate", "interest rate cannot be negative")
	}
	if dpa.AnnualAdminFee.IsNegative() {
		return domain.NewConfigurationError("dpa_parameters.annual_admin_fee", "admin fee cannot be negative")
	}
	return nil
}

func validateProjection(rc *domain.RulesConfig) error {
	// Allow deflation but cap extreme values.
	if rc.Projection.InflationRate.LessThan(decimal.NewFromFloat(-0.10)) ||
		rc.Projection.InflationRate.GreaterThan(decimal.NewFromFloat(0.20)) {
		return domain.NewConfigurationError("projection.inflation_rate", "inflation rate must be between -10%% and 20%%")
	}
	if rc.Projection.HorizonYears <= 0 || rc.Projection.HorizonYears > 50 {
		return domain.NewConfigurationError("projection.horizon_years", "horizon must be between 1 and 50 years")
	}
	return nil
}
