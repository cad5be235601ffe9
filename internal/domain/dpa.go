package domain

import (
	"github.com/shopspring/decimal"
)

// DPAYearEntry is one year of a deferred-payment amortization schedule.
// Entries are append-only within a computation and never mutated afterwards.
type DPAYearEntry struct {
	Year               int             `json:"year"`
	DeferredAmount     decimal.Decimal `json:"deferred_amount"`
	InterestAccrued    decimal.Decimal `json:"interest_accrued"`
	AdminFee           decimal.Decimal `json:"admin_fee"`
	CumulativeDeferred decimal.Decimal `json:"cumulative_deferred"`
	CumulativeInterest decimal.Decimal `json:"cumulative_interest"`
	CumulativeAdminFee decimal.Decimal `json:"cumulative_admin_fees"`
	CumulativeTotal    decimal.Decimal `json:"cumulative_total"`
	WithinLimit        bool            `json:"within_limit"`
}

// DPAResult is the outcome of a deferred-payment-agreement assessment.
type DPAResult struct {
	IsEligible          bool            `json:"is_eligible"`
	IneligibilityReason string          `json:"ineligibility_reason,omitempty"`
	PropertyDisregarded bool            `json:"property_disregarded"`
	Equity              decimal.Decimal `json:"equity"`
	EquityShortfall     decimal.Decimal `json:"equity_shortfall"`
	DeferralLimit       decimal.Decimal `json:"deferral_limit"`
	YearsCovered        int             `json:"years_covered"`
	Schedule            []DPAYearEntry  `json:"schedule"`
}
