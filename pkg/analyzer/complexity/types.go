package complexity

// MethodComplexity holds the complexity metrics of one method.
type MethodComplexity struct {
	Name       string `json:"name"`
	Signature  string `json:"signature"`
	Cyclomatic int    `json:"cyclomatic"`
	Lines      int    `json:"lines"`
}

// Analysis aggregates method complexities for one class.
// Total is the class WMC.
type Analysis struct {
	Methods []MethodComplexity `json:"methods"`
	Total   int                `json:"total"`
	Average float64            `json:"average"`
	Max     int                `json:"max"`

	// ComplexMethods lists methods above ComplexThreshold.
	ComplexMethods []string `json:"complex_methods,omitempty"`
}
