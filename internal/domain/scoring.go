package domain

// Attribute names a scored device attribute
type Attribute string

const (
	AttrPerformance Attribute = "performance"
	AttrCamera      Attribute = "camera"
	AttrBattery     Attribute = "battery"
	AttrValue       Attribute = "value"
	AttrBrand       Attribute = "brand"
)

// Attributes lists every scored attribute in display order
var Attributes = []Attribute{AttrPerformance, AttrCamera, AttrBattery, AttrValue, AttrBrand}

// MaxAttributeScore is the ceiling of the normalized scale
const MaxAttributeScore = 10.0

// Score returns the normalized score of the device for an attribute
func (d Device) Score(attr Attribute) float64 {
	switch attr {
	case AttrPerformance:
		return d.PerfScore
	case AttrCamera:
		return d.CamScore
	case AttrBattery:
		return d.BattScore
	case AttrValue:
		return d.Value
	case AttrBrand:
		return d.BrandScore
	}
	return 0
}

// WeightVector holds one non-negative weight per scored attribute.
// PricePenaltyThreshold is nil unless the preset penalizes expensive devices.
type WeightVector struct {
	Performance           float64  `json:"performance" yaml:"performance"`
	Camera                float64  `json:"camera" yaml:"camera"`
	Battery               float64  `json:"battery" yaml:"battery"`
	Value                 float64  `json:"value" yaml:"value"`
	Brand                 float64  `json:"brand" yaml:"brand"`
	PricePenaltyThreshold *float64 `json:"pricePenaltyThreshold,omitempty" yaml:"price_penalty_threshold,omitempty"`
}

// Weight returns the weight assigned to an attribute
func (w WeightVector) Weight(attr Attribute) float64 {
	switch attr {
	case AttrPerformance:
		return w.Performance
	case AttrCamera:
		return w.Camera
	case AttrBattery:
		return w.Battery
	case AttrValue:
		return w.Value
	case AttrBrand:
		return w.Brand
	}
	return 0
}

// OSFilter restricts a ranking to one operating system; OSAny disables it
type OSFilter string

const (
	OSAny         OSFilter = "Any"
	OSOnlyiOS     OSFilter = "iOS"
	OSOnlyAndroid OSFilter = "Android"
)

// Filters are hard predicates applied before scoring. A nil Budget is unlimited.
type Filters struct {
	OS     OSFilter `json:"os"`
	Budget *float64 `json:"budget,omitempty"`
}

// ScoredDevice is a device with its weighted score and match percentage
type ScoredDevice struct {
	Device
	FinalScore float64 `json:"finalScore"`
	Match      float64 `json:"match"`
}

// AttributeDelta compares one attribute of two devices
type AttributeDelta struct {
	Attribute Attribute `json:"attribute"`
	A         float64   `json:"a"`
	B         float64   `json:"b"`
	Delta     float64   `json:"delta"`
	ALeads    bool      `json:"aLeads"` // A >= B
}

// Comparison is the outcome of a head-to-head between two devices
type Comparison struct {
	DeviceA Device           `json:"deviceA"`
	DeviceB Device           `json:"deviceB"`
	ScoreA  float64          `json:"scoreA"`
	ScoreB  float64          `json:"scoreB"`
	Winner  Device           `json:"winner"`
	Tie     bool             `json:"tie"`
	Deltas  []AttributeDelta `json:"deltas"`
}
