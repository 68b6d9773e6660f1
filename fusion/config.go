package fusion

// Method selects how per-backend scores are merged.
type Method string

const (
	// MethodWeightedSum scales raw scores by backend weight and sorts.
	MethodWeightedSum Method = "weighted_sum"
	// MethodRRF applies reciprocal rank fusion across backend rankings.
	MethodRRF Method = "rank_fusion"
)

// Config tunes the fusion pipeline. Zero values are replaced by the
// defaults at construction.
type Config struct {
	// Method is the score merging strategy.
	Method Method

	// RRFK is the rank offset in the reciprocal rank formula.
	RRFK int

	// DedupThreshold is the Jaccard similarity above which two
	// passages are considered duplicates.
	DedupThreshold float64

	// DiversityThreshold is the Jaccard similarity a passage must stay
	// below, against every already accepted passage, to be accepted in
	// the diversity pass.
	DiversityThreshold float64

	// DiversityGuaranteed is the number of top passages accepted
	// unconditionally.
	DiversityGuaranteed int

	// Rescoring blend weights.
	RelevanceWeight float64
	EntityWeight    float64
	KeywordWeight   float64
	PatternWeight   float64

	// BaseResults is the sizing target before complexity adjustments.
	BaseResults int
	// MinResults floors the adjusted target.
	MinResults int
	// MaxResults caps the adjusted target.
	MaxResults int
}

// DefaultConfig returns the standard pipeline tuning.
func DefaultConfig() Config {
	return Config{
		Method:              MethodWeightedSum,
		RRFK:                60,
		DedupThreshold:      0.85,
		DiversityThreshold:  0.8,
		DiversityGuaranteed: 3,
		RelevanceWeight:     0.4,
		EntityWeight:        0.25,
		KeywordWeight:       0.2,
		PatternWeight:       0.15,
		BaseResults:         5,
		MinResults:          3,
		MaxResults:          20,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Method == "" {
		c.Method = d.Method
	}
	if c.RRFK <= 0 {
		c.RRFK = d.RRFK
	}
	if c.DedupThreshold <= 0 {
		c.DedupThreshold = d.DedupThreshold
	}
	if c.DiversityThreshold <= 0 {
		c.DiversityThreshold = d.DiversityThreshold
	}
	if c.DiversityGuaranteed <= 0 {
		c.DiversityGuaranteed = d.DiversityGuaranteed
	}
	if c.RelevanceWeight == 0 && c.EntityWeight == 0 && c.KeywordWeight == 0 && c.PatternWeight == 0 {
		c.RelevanceWeight = d.RelevanceWeight
		c.EntityWeight = d.EntityWeight
		c.KeywordWeight = d.KeywordWeight
		c.PatternWeight = d.PatternWeight
	}
	if c.BaseResults <= 0 {
		c.BaseResults = d.BaseResults
	}
	if c.MinResults <= 0 {
		c.MinResults = d.MinResults
	}
	if c.MaxResults <= 0 {
		c.MaxResults = d.MaxResults
	}
	return c
}
