package domain

// OSType classifies a device by operating system
type OSType string

const (
	OSiOS     OSType = "iOS"
	OSAndroid OSType = "Android"
)

// RawRow is one row of the source table keyed by lower-cased column header
type RawRow map[string]string

// Device is one normalized catalog row. Scores are on the common 0-10 scale.
type Device struct {
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Chipset string  `json:"chipset,omitempty"`
	Link    string  `json:"link,omitempty"`
	Antutu  int64   `json:"antutu,omitempty"`

	OSType     OSType  `json:"osType"`
	PerfScore  float64 `json:"perfScore"`
	CamScore   float64 `json:"camScore"`
	BattScore  float64 `json:"battScore"`
	Value      float64 `json:"value"`
	BrandScore float64 `json:"brandScore"`
}

// Catalog is an ordered, read-only collection of devices for one scoring pass
type Catalog []Device

// FindByName returns the first device whose name matches exactly
func (c Catalog) FindByName(name string) (Device, bool) {
	for _, d := range c {
		if d.Name == name {
			return d, true
		}
	}
	return Device{}, false
}
