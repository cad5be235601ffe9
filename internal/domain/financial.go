package domain

import (
	"github.com/shopspring/decimal"
)

// OwnershipType describes how a property is held.
type OwnershipType string

const (
	OwnershipSole  OwnershipType = "sole"
	OwnershipJoint OwnershipType = "joint"
)

// PropertyDetails describes the individual's main or former home as it
// enters the means test and the deferred-payment assessment.
type PropertyDetails struct {
	MarketValue                decimal.Decimal `yaml:"market_value" json:"market_value"`
	OutstandingMortgage        decimal.Decimal `yaml:"outstanding_mortgage" json:"outstanding_mortgage"`
	Ownership                  OwnershipType   `yaml:"ownership" json:"ownership"`
	QualifyingRelativeOccupies bool            `yaml:"qualifying_relative_occupies" json:"qualifying_relative_occupies"`
}

// Equity returns market value less the outstanding mortgage.
func (p PropertyDetails) Equity() decimal.Decimal {
	return p.MarketValue.Sub(p.OutstandingMortgage)
}

// Disregard is a typed amount excluded from the means test by rule. The set
// of recognized types comes from the active rules configuration.
type Disregard struct {
	Type   string          `yaml:"type" json:"type"`
	Amount decimal.Decimal `yaml:"amount" json:"amount"`
}

// FinancialProfile is the financial side of one assessment request.
// Capital and income are independent of clinical severities.
type FinancialProfile struct {
	Age              int              `yaml:"age" json:"age"`
	IsCouple         bool             `yaml:"is_couple" json:"is_couple"`
	LiquidCapital    decimal.Decimal  `yaml:"capital_assets" json:"capital_assets"`
	WeeklyIncome     decimal.Decimal  `yaml:"weekly_income" json:"weekly_income"`
	Property         *PropertyDetails `yaml:"property,omitempty" json:"property,omitempty"`
	IncomeDisregards []Disregard      `yaml:"income_disregards,omitempty" json:"income_disregards,omitempty"`
	AssetDisregards  []Disregard      `yaml:"asset_disregards,omitempty" json:"asset_disregards,omitempty"`
}

// FundingLevel classifies the local-authority contribution.
type FundingLevel string

const (
	FundingFull    FundingLevel = "full"
	FundingPartial FundingLevel = "partial"
	FundingNone    FundingLevel = "none"
)

// CapitalAssessment is the capital-side breakdown of a means test.
type CapitalAssessment struct {
	LiquidCapital       decimal.Decimal `json:"liquid_capital"`
	PropertyValue       decimal.Decimal `json:"property_value"`
	PropertyDisregarded bool            `json:"property_disregarded"`
	DisregardReason     string          `json:"disregard_reason,omitempty"`
	DisregardsTotal     decimal.Decimal `json:"disregards_total"`
	AssessableCapital   decimal.Decimal `json:"assessable_capital"`
	UpperLimit          decimal.Decimal `json:"upper_limit"`
	LowerLimit          decimal.Decimal `json:"lower_limit"`
	TariffIncomeWeekly  decimal.Decimal `json:"tariff_income_weekly"`
}

// IncomeAssessment is the income-side breakdown of a means test.
type IncomeAssessment struct {
	WeeklyIncome              decimal.Decimal `json:"weekly_income"`
	TariffIncome              decimal.Decimal `json:"tariff_income"`
	PersonalExpensesAllowance decimal.Decimal `json:"personal_expenses_allowance"`
	DisregardsTotal           decimal.Decimal `json:"disregards_total"`
	AssessableIncome          decimal.Decimal `json:"assessable_income"`
}

// MeansTestResult is the outcome of assessing a FinancialProfile against the
// active capital limits and income allowances.
type MeansTestResult struct {
	FundingLevel         FundingLevel      `json:"funding_level"`
	Capital              CapitalAssessment `json:"capital_assessment"`
	Income               IncomeAssessment  `json:"income_assessment"`
	WeeklyContribution   decimal.Decimal   `json:"weekly_contribution"`
	AnnualContribution   decimal.Decimal   `json:"annual_contribution"`
	WeeklyLAContribution decimal.Decimal   `json:"weekly_la_contribution"`
	AnnualLAContribution decimal.Decimal   `json:"annual_la_contribution"`
}
