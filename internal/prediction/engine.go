// Package prediction scores the chance that an appeal succeeds from a fixed
// set of weights. The score is a pure function of its input.
package prediction

import (
	"strings"

	"github.com/shopspring/decimal"

	"claimequity/internal/domain"
)

var (
	minScore = decimal.NewFromInt(0)
	maxScore = decimal.NewFromInt(100)
)

// Engine computes appeal success probabilities.
type Engine struct {
	tables *Tables
}

// NewEngine creates an Engine over the given tables.
func NewEngine(tables *Tables) *Engine {
	return &Engine{tables: tables}
}

// Predict returns the probability in [0,100]. It has no side effects and the
// same input always yields the same output.
func (e *Engine) Predict(in domain.PredictionInput) domain.PredictionResult {
	score := e.tables.Base.
		Add(e.ageWeight(in.Age)).
		Add(e.zipWeight(in.ZipCode)).
		Add(e.tables.Amount[domain.TierForAmount(in.ClaimAmount)])

	if in.HasPriorAuthorization {
		score = score.Add(e.tables.PriorAuthBonus)
	} else {
		score = score.Add(e.tables.NoPriorAuthPenalty)
	}

	if score.LessThan(minScore) {
		score = minScore
	}
	if score.GreaterThan(maxScore) {
		score = maxScore
	}

	// Round rounds half away from zero.
	return domain.PredictionResult{ProbabilityPercent: int(score.Round(0).IntPart())}
}

func (e *Engine) ageWeight(age int) decimal.Decimal {
	for _, band := range e.tables.Age {
		if band.MaxAge == nil || age <= *band.MaxAge {
			return band.Weight
		}
	}
	return decimal.Zero
}

func (e *Engine) zipWeight(zip string) decimal.Decimal {
	prefix, ok := ZipPrefix(zip)
	if !ok {
		return e.tables.ZipDefault
	}
	if w, ok := e.tables.ZipPrefix[prefix]; ok {
		return w
	}
	return e.tables.ZipDefault
}

// ZipPrefix returns the three-digit prefix of a five-digit ZIP code (an
// optional +4 suffix is allowed). ok is false for malformed input.
func ZipPrefix(zip string) (string, bool) {
	zip = strings.TrimSpace(zip)
	if i := strings.IndexByte(zip, '-'); i >= 0 {
		if !allDigits(zip[i+1:]) || len(zip[i+1:]) != 4 {
			return "", false
		}
		zip = zip[:i]
	}
	if len(zip) != 5 || !allDigits(zip) {
		return "", false
	}
	return zip[:3], true
}
