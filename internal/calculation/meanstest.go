package calculation

import (
	"fmt"
	"time"

	"github.com/elderplan/carefund/internal/domain"
	"github.com/shopspring/decimal"
)

var weeksPerYear = decimal.NewFromInt(52)

// RunMeansTest assesses a financial profile against the active capital
// limits and income allowances for a given weekly care cost. The as-of and
// admission dates drive the temporary property disregard; the system clock
// is never consulted.
func RunMeansTest(fp domain.FinancialProfile, weeklyCareCost decimal.Decimal, asOf time.Time, admission *time.Time, rc *domain.RulesConfig) (*domain.MeansTestResult, error) {
	if err := validateMeansInputs(fp, weeklyCareCost, rc); err != nil {
		return nil, err
	}

	capital := assessCapital(fp, asOf, admission, rc)

	result := &domain.MeansTestResult{Capital: capital}

	// Capital above the upper limit ends the assessment: full self-funding,
	// no income test performed.
	if capital.AssessableCapital.GreaterThan(rc.CapitalLimits.UpperLimit) {
		result.FundingLevel = domain.FundingNone
		result.WeeklyContribution = weeklyCareCost
		result.WeeklyLAContribution = decimal.Zero
		annualize(result)
		return result, nil
	}

	income := assessIncome(fp, capital.TariffIncomeWeekly, rc)
	result.Income = income

	contribution := decimal.Min(income.AssessableIncome, weeklyCareCost)
	laContribution := weeklyCareCost.Sub(contribution)
	if laContribution.IsNegative() {
		laContribution = decimal.Zero
	}

	result.WeeklyContribution = contribution
	result.WeeklyLAContribution = laContribution

	switch {
	case laContribution.Equal(weeklyCareCost):
		// No self-contribution at all: the authority funds everything.
		result.FundingLevel = domain.FundingFull
	case laContribution.IsZero():
		// Assessable income alone covers the full cost.
		result.FundingLevel = domain.FundingNone
	default:
		result.FundingLevel = domain.FundingPartial
	}

	annualize(result)
	return result, nil
}

func validateMeansInputs(fp domain.FinancialProfile, weeklyCareCost decimal.Decimal, rc *domain.RulesConfig) error {
	if weeklyCareCost.Sign() <= 0 {
		return domain.NewValidationError("weekly_care_cost", "weekly care cost must be positive")
	}
	if fp.LiquidCapital.IsNegative() {
		return domain.NewValidationError("capital_assets", "capital assets cannot be negative")
	}
	if fp.WeeklyIncome.IsNegative() {
		return domain.NewValidationError("weekly_income", "weekly income cannot be negative")
	}
	if fp.Property != nil {
		if fp.Property.MarketValue.IsNegative() {
			return domain.NewValidationError("property.market_value", "market value cannot be negative")
		}
		if fp.Property.OutstandingMortgage.IsNegative() {
			return domain.NewValidationError("property.outstanding_mortgage", "outstanding mortgage cannot be negative")
		}
	}
	for i, d := range fp.AssetDisregards {
		if d.Amount.IsNegative() {
			return domain.NewValidationError(fmt.Sprintf("asset_disregards[%d].amount", i), "disregard amount cannot be negative")
		}
		if !rc.Disregards.RecognizesAssetType(d.Type) {
			return domain.NewValidationError(fmt.Sprintf("asset_disregards[%d].type", i), "unrecognized asset disregard type %q", d.Type)
		}
	}
	for i, d := range fp.IncomeDisregards {
		if d.Amount.IsNegative() {
			return domain.NewValidationError(fmt.Sprintf("income_disregards[%d].amount", i), "disregard amount cannot be negative")
		}
		if !rc.Disregards.RecognizesIncomeType(d.Type) {
			return domain.NewValidationError(fmt.Sprintf("income_disregards[%d].type", i), "unrecognized income disregard type %q", d.Type)
		}
	}
	return nil
}

// assessCapital totals assessable capital and, when the capital sits between
// the limits, the weekly tariff income imputed from it.
func assessCapital(fp domain.FinancialProfile, asOf time.Time, admission *time.Time, rc *domain.RulesConfig) domain.CapitalAssessment {
	assessment := domain.CapitalAssessment{
		LiquidCapital: fp.LiquidCapital,
		UpperLimit:    rc.CapitalLimits.UpperLimit,
		LowerLimit:    rc.CapitalLimits.LowerLimit,
		PropertyValue: decimal.Zero,
	}

	if fp.Property != nil {
		disregarded, reason := propertyDisregard(*fp.Property, asOf, admission, rc)
		assessment.PropertyDisregarded = disregarded
		assessment.DisregardReason = reason
		if !disregarded {
			value := fp.Property.MarketValue
			if rc.Disregards.AssessNetEquity {
				value = fp.Property.Equity()
			}
			if value.IsNegative() {
				value = decimal.Zero
			}
			assessment.PropertyValue = value
		}
	}

	disregards := decimal.Zero
	for _, d := range fp.AssetDisregards {
		disregards = disregards.Add(d.Amount)
	}
	assessment.DisregardsTotal = disregards

	assessable := fp.LiquidCapital.Add(assessment.PropertyValue).Sub(disregards)
	if assessable.IsNegative() {
		assessable = decimal.Zero
	}
	assessment.AssessableCapital = assessable

	assessment.TariffIncomeWeekly = tariffIncome(assessable, rc.CapitalLimits)
	return assessment
}

// propertyDisregard decides whether the property is excluded from capital:
// a qualifying relative still occupies it, or the assessment falls inside
// the temporary disregard window from admission.
func propertyDisregard(p domain.PropertyDetails, asOf time.Time, admission *time.Time, rc *domain.RulesConfig) (bool, string) {
	if p.QualifyingRelativeOccupies {
		return true, "qualifying relative occupies the property"
	}
	if admission != nil && rc.Disregards.PropertyDisregardWeeks > 0 {
		windowEnd := admission.AddDate(0, 0, rc.Disregards.PropertyDisregardWeeks*7)
		if asOf.Before(windowEnd) {
			return true, fmt.Sprintf("within %d-week disregard window from admission", rc.Disregards.PropertyDisregardWeeks)
		}
	}
	return false, ""
}

// tariffIncome imputes weekly income from capital held between the limits:
// ceil((capital - lower) / divisor), zero at or below the lower limit.
func tariffIncome(capital decimal.Decimal, limits domain.CapitalLimits) decimal.Decimal {
	if capital.LessThanOrEqual(limits.LowerLimit) || capital.GreaterThan(limits.UpperLimit) {
		return decimal.Zero
	}
	excess := capital.Sub(limits.LowerLimit)
	return excess.Div(limits.TariffDivisor).Ceil()
}

func assessIncome(fp domain.FinancialProfile, tariff decimal.Decimal, rc *domain.RulesConfig) domain.IncomeAssessment {
	assessment := domain.IncomeAssessment{
		WeeklyIncome:              fp.WeeklyIncome,
		TariffIncome:              tariff,
		PersonalExpensesAllowance: rc.IncomeAllowances.PersonalExpensesAllowance,
	}

	disregards := decimal.Zero
	for _, d := range fp.IncomeDisregards {
		disregards = disregards.Add(d.Amount)
	}
	assessment.DisregardsTotal = disregards

	assessable := fp.WeeklyIncome.
		Add(tariff).
		Sub(rc.IncomeAllowances.PersonalExpensesAllowance).
		Sub(disregards)
	if assessable.IsNegative() {
		assessable = decimal.Zero
	}
	assessment.AssessableIncome = assessable
	return assessment
}

// annualize multiplies the weekly figures by 52. No rounding is applied
// until final presentation.
func annualize(result *domain.MeansTestResult) {
	result.AnnualContribution = result.WeeklyContribution.Mul(weeksPerYear)
	result.AnnualLAContribution = result.WeeklyLAContribution.Mul(weeksPerYear)
}
