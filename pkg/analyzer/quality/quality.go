// Package quality turns a class's CK metric vector into normalized
// category scores, an overall quality score and a risk assessment.
//
// Each category score is a monotonic mapping from raw metrics to a
// [0,10] scale where higher is better. The bands are calibrated
// against common CK thresholds (McCabe complexity 10, CBO 9, DIT 5);
// gentle penalties for minor excess, steep for severe.
package quality

import (
	"fmt"
	"math"

	"github.com/ferrith/augur/pkg/facts"
)

// Category weights. Architecture carries the least weight because its
// score comes from heuristic pattern inference rather than measurement.
const (
	weightCohesion     = 0.25
	weightComplexity   = 0.25
	weightCoupling     = 0.25
	weightInheritance  = 0.15
	weightArchitecture = 0.10
)

// NeutralArchitectureScore is used when no pattern inference ran.
const NeutralArchitectureScore = 5.0

// LowQualityThreshold is the weakest-link floor: any category below it
// escalates risk priority regardless of the overall score.
const LowQualityThreshold = 3.0

// QualityScore holds the per-category scores and the weighted overall,
// all in [0,10].
type QualityScore struct {
	Cohesion     float64 `json:"cohesion"`
	Complexity   float64 `json:"complexity"`
	Coupling     float64 `json:"coupling"`
	Inheritance  float64 `json:"inheritance"`
	Architecture float64 `json:"architecture"`
	Overall      float64 `json:"overall"`
}

// Priority is the risk classification ladder.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// RiskAssessment explains why a class received its priority.
type RiskAssessment struct {
	Priority Priority `json:"priority"`
	Reasons  []string `json:"reasons,omitempty"`
}

// band maps a raw metric upper bound to a score. Tables are ordered
// ascending by limit; the first band whose limit is not exceeded wins.
type band struct {
	limit int
	score float64
}

var (
	lcomBands = []band{
		{1, 10.0},
		{2, 7.0},
		{3, 5.0},
		{5, 3.0},
	}
	wmcBands = []band{
		{10, 10.0},
		{20, 8.0},
		{35, 6.0},
		{50, 4.0},
		{80, 2.0},
	}
	cboBands = []band{
		{4, 10.0},
		{9, 8.0},
		{14, 5.5},
		{20, 3.0},
	}
	rfcBands = []band{
		{20, 10.0},
		{40, 8.0},
		{60, 5.5},
		{80, 3.0},
	}
	ditBands = []band{
		{2, 10.0},
		{4, 8.0},
		{5, 6.0},
		{7, 3.0},
	}
	nocBands = []band{
		{5, 10.0},
		{10, 7.0},
		{15, 4.0},
	}
)

// score looks a value up in an ordered band table. Values past the
// last band get the floor score.
func score(bands []band, value int, floor float64) float64 {
	for _, b := range bands {
		if value <= b.limit {
			return b.score
		}
	}
	return floor
}

// Score computes the quality score for a metric vector without pattern
// inference; architecture defaults to neutral.
func Score(m facts.CkMetrics) QualityScore {
	return ScoreWithArchitecture(m, NeutralArchitectureScore)
}

// ScoreWithArchitecture computes the quality score with an explicit
// architecture category score, typically derived from the confidence
// of an inferred architectural pattern.
func ScoreWithArchitecture(m facts.CkMetrics, architecture float64) QualityScore {
	s := QualityScore{
		Cohesion:     score(lcomBands, m.LCOM, 1.0),
		Complexity:   math.Min(score(wmcBands, m.WMC, 0.5), score(wmcBands, m.Cyclomatic, 0.5)),
		Coupling:     couplingScore(m),
		Inheritance:  math.Min(score(ditBands, m.DIT, 1.0), score(nocBands, m.NOC, 1.0)),
		Architecture: clamp(architecture, 0, 10),
	}
	s.Overall = clamp(
		weightCohesion*s.Cohesion+
			weightComplexity*s.Complexity+
			weightCoupling*s.Coupling+
			weightInheritance*s.Inheritance+
			weightArchitecture*s.Architecture,
		0, 10)
	return s
}

// couplingScore blends the four coupling metrics, weighting outgoing
// coupling and response size over afferent coupling. High CA alone is
// not a defect of the class itself, so it only dampens the score.
func couplingScore(m facts.CkMetrics) float64 {
	cbo := score(cboBands, m.CBO, 1.0)
	rfc := score(rfcBands, m.RFC, 1.0)
	ca := score(cboBands, m.CA, 2.0)
	return clamp(0.45*cbo+0.35*rfc+0.20*ca, 0, 10)
}

// Assess derives a risk priority from the quality score. The ladder
// runs over the overall score, then any category below the low-quality
// threshold escalates to at least HIGH; CRITICAL requires both a very
// low overall and at least one failing category.
func Assess(s QualityScore, m facts.CkMetrics) RiskAssessment {
	var a RiskAssessment
	switch {
	case s.Overall >= 7.5:
		a.Priority = PriorityLow
	case s.Overall >= 5.0:
		a.Priority = PriorityMedium
	default:
		a.Priority = PriorityHigh
	}

	failing := failingCategories(s)
	if len(failing) > 0 {
		for _, f := range failing {
			a.Reasons = append(a.Reasons, fmt.Sprintf("%s score %.1f below threshold %.1f", f.name, f.score, LowQualityThreshold))
		}
		if a.Priority != PriorityCritical && a.Priority != PriorityHigh {
			a.Priority = PriorityHigh
		}
		if s.Overall < LowQualityThreshold {
			a.Priority = PriorityCritical
		}
	}

	if len(a.Reasons) == 0 {
		switch a.Priority {
		case PriorityHigh:
			a.Reasons = append(a.Reasons, fmt.Sprintf("overall quality %.1f is poor", s.Overall))
		case PriorityMedium:
			a.Reasons = append(a.Reasons, fmt.Sprintf("overall quality %.1f leaves room for improvement", s.Overall))
		}
	}
	return a
}

type failedCategory struct {
	name  string
	score float64
}

func failingCategories(s QualityScore) []failedCategory {
	var out []failedCategory
	for _, c := range []failedCategory{
		{"cohesion", s.Cohesion},
		{"complexity", s.Complexity},
		{"coupling", s.Coupling},
		{"inheritance", s.Inheritance},
		{"architecture", s.Architecture},
	} {
		if c.score < LowQualityThreshold {
			out = append(out, c)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
