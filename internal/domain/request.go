package domain

// ImportanceLevels are slider labels ("Don't Care" .. "Essential!") per attribute.
// Empty labels fall back to the default custom preference for that attribute.
type ImportanceLevels struct {
	Performance string `json:"performance,omitempty"`
	Camera      string `json:"camera,omitempty"`
	Battery     string `json:"battery,omitempty"`
	Value       string `json:"value,omitempty"`
	Brand       string `json:"brand,omitempty"`
}

// Preferences select weights and filters for a ranking pass. A named persona
// wins over explicit weights, which win over importance labels.
type Preferences struct {
	Persona    string            `json:"persona,omitempty"`
	Weights    *WeightVector     `json:"weights,omitempty"`
	Importance *ImportanceLevels `json:"importance,omitempty"`
	OS         string            `json:"os,omitempty"`
	Budget     *float64          `json:"budget,omitempty" binding:"omitempty,gte=0"`
}

// CompareRequest names two devices for a head-to-head. When DeviceA is empty the
// winner of a ranking under Preferences is used instead.
type CompareRequest struct {
	DeviceA     string       `json:"deviceA,omitempty"`
	DeviceB     string       `json:"deviceB" binding:"required"`
	Judge       string       `json:"judge,omitempty"`
	Preferences *Preferences `json:"preferences,omitempty"`
}

// Recommendation is the outcome of a ranking pass
type Recommendation struct {
	Persona      string         `json:"persona"`
	Weights      WeightVector   `json:"weights"`
	Filters      Filters        `json:"filters"`
	Winner       *ScoredDevice  `json:"winner,omitempty"`
	Alternatives []ScoredDevice `json:"alternatives"`
	Matched      int            `json:"matched"`
	CatalogSize  int            `json:"catalogSize"`
	NoMatches    bool           `json:"noMatches"`
}
