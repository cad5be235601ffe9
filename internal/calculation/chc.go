package calculation

import (
	"fmt"
	"sort"

	"github.com/elderplan/carefund/internal/domain"
	"github.com/shopspring/decimal"
)

// Probability percent above which CHC funding is considered likely, and the
// lower edges of the remaining threshold categories. Category boundaries are
// inclusive below, exclusive above, and exhaustive over [0, 98].
const (
	likelyEligibleFloor = 70
	veryHighFloor       = 92
	moderateFloor       = 20
	probabilityCeiling  = 98
)

// ScoreNeeds converts a NeedsProfile into a CHC assessment result under one
// rules version. Pure function: identical inputs produce identical output.
func ScoreNeeds(profile domain.NeedsProfile, rc *domain.RulesConfig) (*domain.CHCAssessmentResult, error) {
	if err := validateProfileComplete(profile); err != nil {
		return nil, err
	}

	rawScore := decimal.Zero
	domainScores := make(map[domain.DSTDomain]decimal.Decimal, len(domain.AllDomains))
	for _, d := range domain.AllDomains {
		table, ok := rc.DomainScores[d]
		if !ok {
			return nil, domain.NewConfigurationError(
				fmt.Sprintf("domain_scores.%s", d), "score table missing domain")
		}
		sev := profile.SeverityOf(d)
		pts, ok := table.Points(sev)
		if !ok {
			return nil, domain.NewConfigurationError(
				fmt.Sprintf("domain_scores.%s.%s", d, sev.Key()), "score table missing severity")
		}
		domainScores[d] = pts
		rawScore = rawScore.Add(pts)
	}

	severeCount := profile.CountAtLeast(domain.SeveritySevere)
	priorityCount := profile.CountAtLeast(domain.SeverityPriority)

	bonusTotal := decimal.Zero
	var applied []domain.AppliedBonus
	for i, rule := range rc.BonusRules {
		ok, err := evalBonusCondition(fmt.Sprintf("bonus_rules[%d].when", i), rule.When, profile)
		if err != nil {
			return nil, err
		}
		if ok {
			applied = append(applied, domain.AppliedBonus{Name: rule.Name, Points: rule.Points})
			bonusTotal = bonusTotal.Add(rule.Points)
		}
	}

	finalScore := clampDecimal(rawScore.Add(bonusTotal), decimal.Zero, rc.Scoring.MaxScore)

	probability, err := mapProbability(finalScore, rc.ProbabilityBands)
	if err != nil {
		return nil, err
	}

	return &domain.CHCAssessmentResult{
		RawScore:                   rawScore,
		BonusTotal:                 bonusTotal,
		FinalScore:                 finalScore,
		ProbabilityPercent:         probability,
		Category:                   categoryFor(probability),
		IsLikelyEligible:           probability >= likelyEligibleFloor,
		PrimaryHealthNeedIndicated: priorityCount >= 1 || severeCount >= 2,
		SevereDomainsCount:         severeCount,
		PriorityDomainsCount:       priorityCount,
		DomainScores:               domainScores,
		BonusesApplied:             applied,
		KeyFactors:                 keyFactors(domainScores, applied, rc.Scoring.MaxKeyFactors),
	}, nil
}

// evalBonusCondition evaluates one predicate against the profile. Condition
// shapes are validated at rules load time; an unknown kind reaching here is
// still reported as a ConfigurationError rather than defaulted to false.
func evalBonusCondition(path string, c domain.BonusCondition, profile domain.NeedsProfile) (bool, error) {
	switch c.Kind {
	case domain.ConditionFlag:
		return profile.FlagSet(c.Flag), nil
	case domain.ConditionDomainAtLeast:
		min, err := domain.ParseSeverity(c.Severity)
		if err != nil {
			return false, domain.NewConfigurationError(path+".severity", "unknown severity %q", c.Severity)
		}
		if !domain.ValidDomain(c.Domain) {
			return false, domain.NewConfigurationError(path+".domain", "unknown domain %q", c.Domain)
		}
		return profile.SeverityOf(c.Domain).AtLeast(min), nil
	case domain.ConditionCountAtLeast:
		min, err := domain.ParseSeverity(c.Severity)
		if err != nil {
			return false, domain.NewConfigurationError(path+".severity", "unknown severity %q", c.Severity)
		}
		return profile.CountAtLeast(min) >= c.Count, nil
	case domain.ConditionAllOf:
		for i, sub := range c.AllOf {
			ok, err := evalBonusCondition(fmt.Sprintf("%s.all_of[%d]", path, i), sub, profile)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	default:
		return false, domain.NewConfigurationError(path+".kind", "unknown condition kind %q", c.Kind)
	}
}

// mapProbability interpolates the final score through the configured bands,
// rounds, and hard-clamps to [0, 98]. The engine never reports 100:
// certainty is never asserted, only a strong-likelihood ceiling.
func mapProbability(score decimal.Decimal, bands []domain.ProbabilityBand) (int, error) {
	if len(bands) == 0 {
		return 0, domain.NewConfigurationError("probability_bands", "no probability bands configured")
	}

	var percent decimal.Decimal
	matched := false
	for i, band := range bands {
		last := i == len(bands)-1
		inBand := score.GreaterThanOrEqual(band.ScoreMin) &&
			(score.LessThan(band.ScoreMax) || (last && score.LessThanOrEqual(band.ScoreMax)))
		if !inBand {
			continue
		}
		width := band.ScoreMax.Sub(band.ScoreMin)
		if width.IsZero() {
			percent = band.PercentMax
		} else {
			fraction := score.Sub(band.ScoreMin).Div(width)
			percent = band.PercentMin.Add(band.PercentMax.Sub(band.PercentMin).Mul(fraction))
		}
		matched = true
		break
	}
	if !matched {
		return 0, domain.NewConfigurationError("probability_bands",
			"no band covers final score %s", score)
	}

	rounded := int(percent.Round(0).IntPart())
	if rounded < 0 {
		rounded = 0
	}
	if rounded > probabilityCeiling {
		rounded = probabilityCeiling
	}
	return rounded, nil
}

// categoryFor maps a clamped probability percent to its threshold category.
func categoryFor(probability int) domain.ThresholdCategory {
	switch {
	case probability >= veryHighFloor:
		return domain.CategoryVeryHigh
	case probability >= likelyEligibleFloor:
		return domain.CategoryHigh
	case probability >= moderateFloor:
		return domain.CategoryModerate
	default:
		return domain.CategoryLow
	}
}

// keyFactors lists contributing domains and bonuses in descending point
// order, ties broken by declaration order, truncated to maxFactors.
func keyFactors(domainScores map[domain.DSTDomain]decimal.Decimal, bonuses []domain.AppliedBonus, maxFactors int) []domain.KeyFactor {
	factors := make([]domain.KeyFactor, 0, len(domainScores)+len(bonuses))
	for _, d := range domain.AllDomains {
		pts := domainScores[d]
		if pts.IsPositive() {
			factors = append(factors, domain.KeyFactor{
				Name:   string(d),
				Source: domain.FactorSourceDomain,
				Points: pts,
			})
		}
	}
	for _, b := range bonuses {
		if b.Points.IsPositive() {
			factors = append(factors, domain.KeyFactor{
				Name:   b.Name,
				Source: domain.FactorSourceBonus,
				Points: b.Points,
			})
		}
	}

	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].Points.GreaterThan(factors[j].Points)
	})

	if maxFactors > 0 && len(factors) > maxFactors {
		factors = factors[:maxFactors]
	}
	return factors
}

func clampDecimal(v, min, max decimal.Decimal) decimal.Decimal {
	if v.LessThan(min) {
		return min
	}
	if v.GreaterThan(max) {
		return max
	}
	return v
}
