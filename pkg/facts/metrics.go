package facts

// CkMetrics is the Chidamber-Kemerer metric vector for one class.
// All fields are non-negative. WMC is at least the method count for
// any class with methods, since every method contributes a base
// cyclomatic complexity of one.
type CkMetrics struct {
	WMC        int `json:"wmc"`
	DIT        int `json:"dit"`
	NOC        int `json:"noc"`
	CBO        int `json:"cbo"`
	RFC        int `json:"rfc"`
	CA         int `json:"ca"`
	CE         int `json:"ce"`
	LCOM       int `json:"lcom"`
	Cyclomatic int `json:"cyclomatic_complexity"`
}
