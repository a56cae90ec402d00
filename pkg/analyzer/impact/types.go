package impact

import (
	"github.com/ferrith/augur/pkg/facts"
	"github.com/ferrith/augur/pkg/report"
)

// Severity ranks how strongly a dependent is affected by a change.
type Severity string

const (
	SeverityHigh    Severity = "HIGH"
	SeverityMedium  Severity = "MEDIUM"
	SeverityLow     Severity = "LOW"
	SeverityMinimal Severity = "MINIMAL"
)

// SeverityFor maps a reference kind to the severity of depending on a
// changed class through it. The mapping is total over RefKind.
func SeverityFor(kind facts.RefKind) Severity {
	switch kind {
	case facts.RefInheritance:
		return SeverityHigh
	case facts.RefComposition:
		return SeverityMedium
	case facts.RefUsage:
		return SeverityLow
	default:
		return SeverityMinimal
	}
}

// Level is the overall impact classification of a diff.
type Level string

const (
	LevelHigh    Level = "HIGH"
	LevelMedium  Level = "MEDIUM"
	LevelLow     Level = "LOW"
	LevelMinimal Level = "MINIMAL"
)

// MethodChangeKind tags how a method changed between versions.
type MethodChangeKind string

const (
	MethodAdded           MethodChangeKind = "ADDED"
	MethodRemoved         MethodChangeKind = "REMOVED"
	MethodModified        MethodChangeKind = "MODIFIED"
	MethodSignatureChange MethodChangeKind = "SIGNATURE_CHANGE"
)

// MethodImpact is one changed method of a directly changed class.
type MethodImpact struct {
	Class  string           `json:"class"`
	Method string           `json:"method"`
	Kind   MethodChangeKind `json:"kind"`
}

// DependencyImpact is one class reached through the ripple closure.
type DependencyImpact struct {
	Class    string        `json:"class"`
	Via      string        `json:"via"`
	Kind     facts.RefKind `json:"kind"`
	Severity Severity      `json:"severity"`
	// Distance is the BFS hop count from the changed class set.
	Distance int `json:"distance"`
}

// MetricDelta is the change of one metric for one class. Measured is
// false when the before value is zero, since a percentage over zero is
// unmeasurable rather than infinite.
type MetricDelta struct {
	Metric   string  `json:"metric"`
	Before   float64 `json:"before"`
	After    float64 `json:"after"`
	Delta    float64 `json:"delta"`
	Percent  float64 `json:"percent"`
	Measured bool    `json:"measured"`
}

// ClassDelta compares one class across the two versions.
type ClassDelta struct {
	Class        string        `json:"class"`
	Deltas       []MetricDelta `json:"deltas"`
	QualityDelta float64       `json:"quality_delta"`
	Improvements int           `json:"improvements"`
	Regressions  int           `json:"regressions"`
}

// ImpactMetrics aggregates the blast radius of a change set over the
// after-side corpus.
type ImpactMetrics struct {
	// TotalAffected counts directly and indirectly affected classes.
	TotalAffected int `json:"total_affected"`
	// ImpactPercentage is TotalAffected as a share of the corpus class
	// count. An empty corpus yields 0.
	ImpactPercentage float64 `json:"impact_percentage"`
	RiskLevel        Level   `json:"risk_level"`
}

// Analysis is the full result of a diff impact run.
type Analysis struct {
	Level Level `json:"level"`
	// Direct lists classes in changed files.
	Direct []string `json:"direct,omitempty"`
	// Indirect lists classes reached via incoming dependency edges.
	Indirect []DependencyImpact `json:"indirect,omitempty"`
	// DirectFiles and IndirectFiles project the affected classes onto
	// their source files; a file reached both ways counts as direct.
	DirectFiles   []string       `json:"direct_files,omitempty"`
	IndirectFiles []string       `json:"indirect_files,omitempty"`
	Methods       []MethodImpact `json:"methods,omitempty"`
	Deltas        []ClassDelta   `json:"deltas,omitempty"`
	// NotMeasured lists classes whose before version was unavailable;
	// those are excluded from the comparison rather than treated as
	// zero-delta.
	NotMeasured  []string `json:"not_measured,omitempty"`
	Improvements int      `json:"improvements"`
	Regressions  int      `json:"regressions"`
	// Net is improvements minus regressions.
	Net         int                 `json:"net"`
	Metrics     ImpactMetrics       `json:"metrics"`
	Diagnostics []report.Diagnostic `json:"diagnostics,omitempty"`
}

// LevelFor classifies the net improvement count. A negative net means
// the diff regresses quality on balance and is escalated to the same
// ceiling as a strongly positive net.
func LevelFor(net int) Level {
	switch {
	case net < 0:
		return LevelHigh
	case net > 5:
		return LevelHigh
	case net > 2:
		return LevelMedium
	case net > 0:
		return LevelLow
	default:
		return LevelMinimal
	}
}
