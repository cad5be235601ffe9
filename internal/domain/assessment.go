package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssessmentRequest is the inbound shape consumed from the surrounding API
// layer. The as-of date is an explicit input; the engines never read the
// system clock.
type AssessmentRequest struct {
	Age                int                    `yaml:"age" json:"age"`
	CareType           string                 `yaml:"care_type" json:"care_type"`
	AsOfDate           time.Time              `yaml:"as_of_date" json:"as_of_date"`
	AdmissionDate      *time.Time             `yaml:"admission_date,omitempty" json:"admission_date,omitempty"`
	WeeklyCareCost     decimal.Decimal        `yaml:"weekly_care_cost" json:"weekly_care_cost"`
	WeeklyDeferred     *decimal.Decimal       `yaml:"weekly_deferred,omitempty" json:"weekly_deferred,omitempty"`
	DomainAssessments  map[DSTDomain]Severity `yaml:"domain_assessments" json:"domain_assessments"`
	SupplementaryFlags map[string]bool        `yaml:"supplementary_flags,omitempty" json:"supplementary_flags,omitempty"`
	CapitalAssets      decimal.Decimal        `yaml:"capital_assets" json:"capital_assets"`
	WeeklyIncome       decimal.Decimal        `yaml:"weekly_income" json:"weekly_income"`
	IsCouple           bool                   `yaml:"is_couple" json:"is_couple"`
	Property           *PropertyDetails       `yaml:"property,omitempty" json:"property,omitempty"`
	IncomeDisregards   []Disregard            `yaml:"income_disregards,omitempty" json:"income_disregards,omitempty"`
	AssetDisregards    []Disregard            `yaml:"asset_disregards,omitempty" json:"asset_disregards,omitempty"`
}

// NeedsProfile builds the immutable clinical profile for this request.
// Domains absent from the request default to SeverityNone.
func (r *AssessmentRequest) NeedsProfile() NeedsProfile {
	return NewNeedsProfile(r.DomainAssessments, r.SupplementaryFlags)
}

// FinancialProfile builds the financial profile for this request.
func (r *AssessmentRequest) FinancialProfile() FinancialProfile {
	return FinancialProfile{
		Age:              r.Age,
		IsCouple:         r.IsCouple,
		LiquidCapital:    r.CapitalAssets,
		WeeklyIncome:     r.WeeklyIncome,
		Property:         r.Property,
		IncomeDisregards: r.IncomeDisregards,
		AssetDisregards:  r.AssetDisregards,
	}
}

// DeferredWeekly returns the weekly amount the individual wishes to defer
// under a DPA, defaulting to the full weekly care cost.
func (r *AssessmentRequest) DeferredWeekly() decimal.Decimal {
	if r.WeeklyDeferred != nil {
		return *r.WeeklyDeferred
	}
	return r.WeeklyCareCost
}

// AssessmentResult is the outbound result composed from all four engines.
type AssessmentResult struct {
	AssessmentID string              `json:"assessment_id"`
	RulesVersion string              `json:"rules_version"`
	CHC          CHCAssessmentResult `json:"chc"`
	LA           MeansTestResult     `json:"la"`
	DPA          DPAResult           `json:"dpa"`
	Projections  FundingComparison   `json:"projections"`
	AssessedAt   time.Time           `json:"assessed_at"`
}
