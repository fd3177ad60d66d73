package usecase

import (
	"fmt"
	"math"
	"sort"

	"github.com/techchoose/backend/internal/domain"
)

// pricePenaltyRate is the score lost per currency unit above the penalty threshold
const pricePenaltyRate = 0.5

// ValidateWeights rejects negative, NaN and infinite weights. There is no upper bound.
func ValidateWeights(w domain.WeightVector) error {
	for _, attr := range domain.Attributes {
		v := w.Weight(attr)
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s = %v", domain.ErrInvalidWeights, attr, v)
		}
	}
	if t := w.PricePenaltyThreshold; t != nil && (*t < 0 || math.IsNaN(*t) || math.IsInf(*t, 0)) {
		return fmt.Errorf("%w: price penalty threshold = %v", domain.ErrInvalidWeights, *t)
	}
	return nil
}

// WeightedScore is the sum of weight * normalized score over every attribute
func WeightedScore(d domain.Device, w domain.WeightVector) float64 {
	var total float64
	for _, attr := range domain.Attributes {
		total += w.Weight(attr) * d.Score(attr)
	}
	return total
}

// MaxPossibleScore is the weighted score of a device at the ceiling on every attribute
func MaxPossibleScore(w domain.WeightVector) float64 {
	var total float64
	for _, attr := range domain.Attributes {
		total += w.Weight(attr) * domain.MaxAttributeScore
	}
	return total
}

// PricePenalty is 0.5 per unit of price above the threshold, or 0 without one
func PricePenalty(price float64, w domain.WeightVector) float64 {
	if w.PricePenaltyThreshold == nil {
		return 0
	}
	return pricePenaltyRate * math.Max(0, price-*w.PricePenaltyThreshold)
}

// MatchPercent converts a final score to a share of the maximum, clipped to [0, 100].
// A zero maximum (all weights zero) yields 0.
func MatchPercent(finalScore, maxPossible float64) float64 {
	if maxPossible <= 0 {
		return 0
	}
	return clip(100*finalScore/maxPossible, 0, 100)
}

// Matches reports whether a device passes the OS and budget filters
func Matches(d domain.Device, f domain.Filters) bool {
	switch f.OS {
	case domain.OSOnlyiOS:
		if d.OSType != domain.OSiOS {
			return false
		}
	case domain.OSOnlyAndroid:
		if d.OSType != domain.OSAndroid {
			return false
		}
	}

	if f.Budget != nil && d.Price > *f.Budget {
		return false
	}
	return true
}

// Filter returns the devices passing f, in catalog order. The input is not modified.
func Filter(catalog domain.Catalog, f domain.Filters) domain.Catalog {
	out := make(domain.Catalog, 0, len(catalog))
	for _, d := range catalog {
		if Matches(d, f) {
			out = append(out, d)
		}
	}
	return out
}

// Rank scores every device that passes the filters and orders them best first.
// Equal scores keep catalog order. An empty result is not an error.
func Rank(catalog domain.Catalog, w domain.WeightVector, f domain.Filters) []domain.ScoredDevice {
	maxPossible := MaxPossibleScore(w)

	scored := make([]domain.ScoredDevice, 0, len(catalog))
	for _, d := range catalog {
		if !Matches(d, f) {
			continue
		}
		final := WeightedScore(d, w) - PricePenalty(d.Price, w)
		scored = append(scored, domain.ScoredDevice{
			Device:     d,
			FinalScore: final,
			Match:      MatchPercent(final, maxPossible),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].FinalScore > scored[j].FinalScore
	})

	return scored
}

// Compare judges a head-to-head on raw weighted scores. Ties go to a.
func Compare(a, b domain.Device, w domain.WeightVector) domain.Comparison {
	scoreA := WeightedScore(a, w)
	scoreB := WeightedScore(b, w)

	winner := a
	if scoreB > scoreA {
		winner = b
	}

	deltas := make([]domain.AttributeDelta, 0, len(domain.Attributes))
	for _, attr := range domain.Attributes {
		va, vb := a.Score(attr), b.Score(attr)
		deltas = append(deltas, domain.AttributeDelta{
			Attribute: attr,
			A:         va,
			B:         vb,
			Delta:     va - vb,
			ALeads:    va >= vb,
		})
	}

	return domain.Comparison{
		DeviceA: a,
		DeviceB: b,
		ScoreA:  scoreA,
		ScoreB:  scoreB,
		Winner:  winner,
		Tie:     scoreA == scoreB,
		Deltas:  deltas,
	}
}
