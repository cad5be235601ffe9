package calculation

import (
	"github.com/elderplan/carefund/internal/domain"
	"github.com/shopspring/decimal"
)

// AssessDPA evaluates deferred-payment eligibility and, when eligible,
// builds the year-by-year amortization schedule over the projection horizon.
// The schedule stops accruing after the first year the deferral limit is
// breached; later years must be funded some other way.
func AssessDPA(property *domain.PropertyDetails, weeklyDeferred decimal.Decimal, rc *domain.RulesConfig) (*domain.DPAResult, error) {
	if weeklyDeferred.IsNegative() {
		return nil, domain.NewValidationError("weekly_deferred", "weekly deferred amount cannot be negative")
	}

	result := &domain.DPAResult{
		Equity:          decimal.Zero,
		EquityShortfall: decimal.Zero,
		DeferralLimit:   decimal.Zero,
	}

	if property == nil {
		result.IneligibilityReason = "no property to secure the agreement against"
		return result, nil
	}
	if property.MarketValue.IsNegative() {
		return nil, domain.NewValidationError("property.market_value", "market value cannot be negative")
	}
	if property.OutstandingMortgage.IsNegative() {
		return nil, domain.NewValidationError("property.outstanding_mortgage", "outstanding mortgage cannot be negative")
	}

	equity := property.Equity()
	if equity.IsNegative() {
		equity = decimal.Zero
	}
	result.Equity = equity

	// A property kept as a qualifying relative's continuing home is already
	// disregarded by the means test and cannot also secure a deferral.
	if property.QualifyingRelativeOccupies {
		result.PropertyDisregarded = true
		result.IneligibilityReason = "property is disregarded as a qualifying relative's continuing home"
		return result, nil
	}

	minEquity := rc.DPAParameters.MinimumEquity
	if equity.LessThan(minEquity) {
		result.EquityShortfall = minEquity.Sub(equity)
		result.IneligibilityReason = "equity below the minimum threshold"
		return result, nil
	}

	result.IsEligible = true
	result.DeferralLimit = equity.Mul(rc.DPAParameters.MaxDeferralPercent)
	result.Schedule, result.YearsCovered = buildDeferralSchedule(weeklyDeferred, result.DeferralLimit, rc)
	return result, nil
}

// buildDeferralSchedule accrues the deferred amount year by year with
// compounding cost inflation, interest on the cumulative deferral, and a
// fixed annual administration fee. Cumulative fields are monotonically
// non-decreasing; the returned yearsCovered is the last year the combined
// total stayed within the limit.
func buildDeferralSchedule(weeklyDeferred, deferralLimit decimal.Decimal, rc *domain.RulesConfig) ([]domain.DPAYearEntry, int) {
	horizon := rc.Projection.HorizonYears
	inflationFactor := decimal.NewFromInt(1).Add(rc.Projection.InflationRate)
	interestRate := rc.DPAParameters.AnnualInterestRate
	adminFee := rc.DPAParameters.AnnualAdminFee

	schedule := make([]domain.DPAYearEntry, 0, horizon)
	cumulativeDeferred := decimal.Zero
	cumulativeInterest := decimal.Zero
	cumulativeFees := decimal.Zero
	yearsCovered := 0

	for year := 1; year <= horizon; year++ {
		factor := inflationFactor.Pow(decimal.NewFromInt(int64(year - 1)))
		deferred := weeklyDeferred.Mul(weeksPerYear).Mul(factor)
		cumulativeDeferred = cumulativeDeferred.Add(deferred)

		interest := cumulativeDeferred.Mul(interestRate)
		cumulativeInterest = cumulativeInterest.Add(interest)
		cumulativeFees = cumulativeFees.Add(adminFee)

		total := cumulativeDeferred.Add(cumulativeInterest).Add(cumulativeFees)
		withinLimit := total.LessThanOrEqual(deferralLimit)

		schedule = append(schedule, domain.DPAYearEntry{
			Year:               year,
			DeferredAmount:     deferred,
			InterestAccrued:    interest,
			AdminFee:           adminFee,
			CumulativeDeferred: cumulativeDeferred,
			CumulativeInterest: cumulativeInterest,
			CumulativeAdminFee: cumulativeFees,
			CumulativeTotal:    total,
			WithinLimit:        withinLimit,
		})

		if !withinLimit {
			// First breach: no further deferral accrues.
			break
		}
		yearsCovered = year
	}

	return schedule, yearsCovered
}
