package calculation

import (
	"fmt"

	"github.com/elderplan/carefund/internal/domain"
)

// ValidateRequest rejects malformed input before any engine runs. Every
// failure names the offending field; the caller layer surfaces the message
// directly. Validation never consults the system clock.
func ValidateRequest(req *domain.AssessmentRequest, rc *domain.RulesConfig) error {
	if req.AsOfDate.IsZero() {
		return domain.NewValidationError("as_of_date", "as-of date is required")
	}
	if req.Age < 18 || req.Age > 110 {
		return domain.NewValidationError("age", "age must be between 18 and 110, got %d", req.Age)
	}
	if req.WeeklyCareCost.Sign() <= 0 {
		return domain.NewValidationError("weekly_care_cost", "weekly care cost must be positive")
	}
	if req.CapitalAssets.IsNegative() {
		return domain.NewValidationError("capital_assets", "capital assets cannot be negative")
	}
	if req.WeeklyIncome.IsNegative() {
		return domain.NewValidationError("weekly_income", "weekly income cannot be negative")
	}
	if req.WeeklyDeferred != nil && req.WeeklyDeferred.IsNegative() {
		return domain.NewValidationError("weekly_deferred", "weekly deferred amount cannot be negative")
	}

	if err := validateDomainAssessments(req); err != nil {
		return err
	}
	if err := validateProperty(req.Property); err != nil {
		return err
	}
	return validateDisregards(req, rc)
}

func validateDomainAssessments(req *domain.AssessmentRequest) error {
	anyAboveNone := false
	for d, sev := range req.DomainAssessments {
		if !domain.ValidDomain(d) {
			return domain.NewValidationError(
				fmt.Sprintf("domain_assessments.%s", d), "unknown clinical domain")
		}
		if !sev.Valid() {
			return domain.NewValidationError(
				fmt.Sprintf("domain_assessments.%s", d), "severity outside the defined ordinal scale")
		}
		if sev.AtLeast(domain.SeverityLow) {
			anyAboveNone = true
		}
	}
	if !anyAboveNone {
		return domain.NewValidationError("domain_assessments",
			"at least one domain must be assessed above none")
	}
	return nil
}

func validateProperty(p *domain.PropertyDetails) error {
	if p == nil {
		return nil
	}
	if p.MarketValue.IsNegative() {
		return domain.NewValidationError("property.market_value", "market value cannot be negative")
	}
	if p.OutstandingMortgage.IsNegative() {
		return domain.NewValidationError("property.outstanding_mortgage", "outstanding mortgage cannot be negative")
	}
	if p.Ownership != "" && p.Ownership != domain.OwnershipSole && p.Ownership != domain.OwnershipJoint {
		return domain.NewValidationError("property.ownership", "ownership must be sole or joint")
	}
	return nil
}

func validateDisregards(req *domain.AssessmentRequest, rc *domain.RulesConfig) error {
	for i, d := range req.IncomeDisregards {
		path := fmt.Sprintf("income_disregards[%d]", i)
		if d.Amount.IsNegative() {
			return domain.NewValidationError(path+".amount", "disregard amount cannot be negative")
		}
		if !rc.Disregards.RecognizesIncomeType(d.Type) {
			return domain.NewValidationError(path+".type", "unrecognized income disregard type %q", d.Type)
		}
	}
	for i, d := range req.AssetDisregards {
		path := fmt.Sprintf("asset_disregards[%d]", i)
		if d.Amount.IsNegative() {
			return domain.NewValidationError(path+".amount", "disregard amount cannot be negative")
		}
		if !rc.Disregards.RecognizesAssetType(d.Type) {
			return domain.NewValidationError(path+".type", "unrecognized asset disregard type %q", d.Type)
		}
	}
	return nil
}

// validateProfileComplete enforces the scoring engine's input contract: all
// twelve domains present, every severity on the defined scale.
func validateProfileComplete(profile domain.NeedsProfile) error {
	for d := range profile.Assessments {
		if !domain.ValidDomain(d) {
			return domain.NewValidationError(
				fmt.Sprintf("domain_assessments.%s", d), "unknown clinical domain")
		}
	}
	for _, d := range domain.AllDomains {
		sev, ok := profile.Assessments[d]
		if !ok {
			return domain.NewValidationError(
				fmt.Sprintf("domain_assessments.%s", d), "domain assessment is missing")
		}
		if !sev.Valid() {
			return domain.NewValidationError(
				fmt.Sprintf("domain_assessments.%s", d), "severity outside the defined ordinal scale")
		}
	}
	return nil
}
