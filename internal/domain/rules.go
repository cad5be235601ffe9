package domain

import (
	"github.com/shopspring/decimal"
)

// RulesConfig contains one version of the statutory funding rules. It is
// loaded from a rules YAML file, validated once, and treated as read-only
// thereafter; activating a newer version never mutates a loaded config.
type RulesConfig struct {
	Metadata         RulesMetadata                `yaml:"metadata" json:"metadata"`
	DomainScores     map[DSTDomain]SeverityPoints `yaml:"domain_scores" json:"domain_scores"`
	BonusRules       []BonusRule                  `yaml:"bonus_rules" json:"bonus_rules"`
	Scoring          ScoringRules                 `yaml:"scoring" json:"scoring"`
	ProbabilityBands []ProbabilityBand            `yaml:"probability_bands" json:"probability_bands"`
	CapitalLimits    CapitalLimits                `yaml:"capital_limits" json:"capital_limits"`
	IncomeAllowances IncomeAllowances             `yaml:"income_allowances" json:"income_allowances"`
	Disregards       DisregardRules               `yaml:"disregards" json:"disregards"`
	DPAParameters    DPAParameters                `yaml:"dpa_parameters" json:"dpa_parameters"`
	Projection       ProjectionRules              `yaml:"projection" json:"projection"`
}

// RulesMetadata identifies a rules version.
type RulesMetadata struct {
	Version     string `yaml:"version" json:"version"`
	RuleYear    string `yaml:"rule_year" json:"rule_year"`
	Description string `yaml:"description" json:"description"`
}

// SeverityPoints maps severity keys ("none".."priority") to points for one
// domain. Keys are strings so the table round-trips through YAML unchanged;
// lookups go through Points, which reports misses instead of defaulting.
type SeverityPoints map[string]decimal.Decimal

// Points returns the configured points for a severity. The boolean is false
// when the table has no entry, which callers must treat as a configuration
// failure, never as zero.
func (sp SeverityPoints) Points(s Severity) (decimal.Decimal, bool) {
	pts, ok := sp[s.Key()]
	return pts, ok
}

// ScoringRules carries the scalar knobs of the needs scoring engine.
type ScoringRules struct {
	MaxScore      decimal.Decimal `yaml:"max_score" json:"max_score"`
	MaxKeyFactors int             `yaml:"max_key_factors" json:"max_key_factors"`
}

// BonusConditionKind enumerates the predicate shapes a bonus rule may use.
type BonusConditionKind string

const (
	ConditionFlag          BonusConditionKind = "flag"
	ConditionDomainAtLeast BonusConditionKind = "domain_at_least"
	ConditionCountAtLeast  BonusConditionKind = "count_at_least"
	ConditionAllOf         BonusConditionKind = "all_of"
)

// BonusCondition is one predicate over a NeedsProfile. Conditions nest only
// through all_of; rules stay independent of each other.
type BonusCondition struct {
	Kind     BonusConditionKind `yaml:"kind" json:"kind"`
	Flag     string             `yaml:"flag,omitempty" json:"flag,omitempty"`
	Domain   DSTDomain          `yaml:"domain,omitempty" json:"domain,omitempty"`
	Severity string             `yaml:"severity,omitempty" json:"severity,omitempty"`
	Count    int                `yaml:"count,omitempty" json:"count,omitempty"`
	AllOf    []BonusCondition   `yaml:"all_of,omitempty" json:"all_of,omitempty"`
}

// BonusRule is one independent predicate-plus-points rule. Rules are
// evaluated in declaration order and are cumulative; adding a rule never
// requires touching the aggregation logic.
type BonusRule struct {
	Name   string          `yaml:"name" json:"name"`
	Points decimal.Decimal `yaml:"points" json:"points"`
	When   BonusCondition  `yaml:"when" json:"when"`
}

// ProbabilityBand maps a final-score range onto a probability range by
// linear interpolation. Bands are ordered and contiguous over [0, max_score].
type ProbabilityBand struct {
	ScoreMin   decimal.Decimal `yaml:"score_min" json:"score_min"`
	ScoreMax   decimal.Decimal `yaml:"score_max" json:"score_max"`
	PercentMin decimal.Decimal `yaml:"percent_min" json:"percent_min"`
	PercentMax decimal.Decimal `yaml:"percent_max" json:"percent_max"`
}

// CapitalLimits holds the means-test capital thresholds.
type CapitalLimits struct {
	UpperLimit    decimal.Decimal `yaml:"upper_limit" json:"upper_limit"`
	LowerLimit    decimal.Decimal `yaml:"lower_limit" json:"lower_limit"`
	TariffDivisor decimal.Decimal `yaml:"tariff_divisor" json:"tariff_divisor"`
}

// IncomeAllowances holds the means-test income allowances.
type IncomeAllowances struct {
	PersonalExpensesAllowance decimal.Decimal `yaml:"personal_expenses_allowance" json:"personal_expenses_allowance"`
}

// DisregardRules names the disregard types the means test recognizes and
// configures the property disregard.
type DisregardRules struct {
	IncomeTypes            []string `yaml:"income_types" json:"income_types"`
	AssetTypes             []string `yaml:"asset_types" json:"asset_types"`
	PropertyDisregardWeeks int      `yaml:"property_disregard_weeks" json:"property_disregard_weeks"`
	AssessNetEquity        bool     `yaml:"assess_net_equity" json:"assess_net_equity"`
}

// RecognizesIncomeType reports whether an income disregard type is valid
// under this rules version.
func (dr DisregardRules) RecognizesIncomeType(t string) bool {
	return containsString(dr.IncomeTypes, t)
}

// RecognizesAssetType reports whether an asset disregard type is valid under
// this rules version.
func (dr DisregardRules) RecognizesAssetType(t string) bool {
	return containsString(dr.AssetTypes, t)
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

// DPAParameters configures the deferred-payment engine.
type DPAParameters struct {
	MinimumEquity      decimal.Decimal `yaml:"minimum_equity" json:"minimum_equity"`
	MaxDeferralPercent decimal.Decimal `yaml:"max_deferral_percent" json:"max_deferral_percent"`
	AnnualInterestRate decimal.Decimal `yaml:"annual_interest_rate" json:"annual_interest_rate"`
	AnnualAdminFee     decimal.Decimal `yaml:"annual_admin_fee" json:"annual_admin_fee"`
}

// ProjectionRules configures the scenario projection engine.
type ProjectionRules struct {
	InflationRate decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`
	HorizonYears  int             `yaml:"horizon_years" json:"horizon_years"`
	// EscalateLAContribution re-means-tests the LA contribution annually.
	// Held off by default: the engine treats the contribution as constant
	// across the horizon, a documented simplifying assumption.
	EscalateLAContribution bool `yaml:"escalate_la_contribution" json:"escalate_la_contribution"`
}

// Version returns the version identifier of this rules config.
func (rc *RulesConfig) Version() string {
	return rc.Metadata.Version
}
