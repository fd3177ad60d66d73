package usecase

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/techchoose/backend/internal/domain"
)

// PersonaCustom selects caller-supplied weights instead of a preset
const PersonaCustom = "custom"

// DefaultJudge is used when a comparison names no judge criterion
const DefaultJudge = "overall"

//go:embed presets.yaml
var defaultPresetsYAML []byte

// presetsFile is the top-level structure of a presets YAML document
type presetsFile struct {
	Personas   map[string]domain.WeightVector `yaml:"personas"`
	Judges     map[string]domain.WeightVector `yaml:"judges"`
	Importance map[string]float64             `yaml:"importance"`
}

// Presets maps persona names, judge criteria and importance labels to weights.
// Lookups are case-insensitive.
type Presets struct {
	personas   map[string]domain.WeightVector
	judges     map[string]domain.WeightVector
	importance map[string]float64
}

// DefaultPresets returns the embedded preset tables
func DefaultPresets() *Presets {
	p, err := ParsePresets(defaultPresetsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded presets are invalid: %v", err))
	}
	return p
}

// LoadPresets reads preset tables from path, or returns the embedded defaults when path is empty
func LoadPresets(path string) (*Presets, error) {
	if path == "" {
		return DefaultPresets(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("presets: read %s: %w", path, err)
	}
	return ParsePresets(data)
}

// ParsePresets decodes and validates a presets YAML document
func ParsePresets(data []byte) (*Presets, error) {
	var f presetsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("presets: parse yaml: %w", err)
	}

	p := &Presets{
		personas:   make(map[string]domain.WeightVector, len(f.Personas)),
		judges:     make(map[string]domain.WeightVector, len(f.Judges)),
		importance: make(map[string]float64, len(f.Importance)),
	}

	for name, w := range f.Personas {
		if err := ValidateWeights(w); err != nil {
			return nil, fmt.Errorf("presets: persona %q: %w", name, err)
		}
		p.personas[presetKey(name)] = w
	}
	for name, w := range f.Judges {
		if err := ValidateWeights(w); err != nil {
			return nil, fmt.Errorf("presets: judge %q: %w", name, err)
		}
		p.judges[presetKey(name)] = w
	}
	for label, v := range f.Importance {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("presets: importance %q = %v: %w", label, v, domain.ErrInvalidWeights)
		}
		p.importance[presetKey(label)] = v
	}

	return p, nil
}

// Persona returns the weight vector for a persona name
func (p *Presets) Persona(name string) (domain.WeightVector, error) {
	w, ok := p.personas[presetKey(name)]
	if !ok {
		return domain.WeightVector{}, fmt.Errorf("%w: %q", domain.ErrUnknownPersona, name)
	}
	return w, nil
}

// Judge returns the weight vector for a judge criterion; empty selects DefaultJudge
func (p *Presets) Judge(name string) (domain.WeightVector, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultJudge
	}
	w, ok := p.judges[presetKey(name)]
	if !ok {
		return domain.WeightVector{}, fmt.Errorf("%w: %q", domain.ErrUnknownJudge, name)
	}
	return w, nil
}

// Importance returns the weight for a slider label such as "Important"
func (p *Presets) Importance(label string) (float64, error) {
	v, ok := p.importance[presetKey(label)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownImportance, label)
	}
	return v, nil
}

// PersonaNames returns the persona names in sorted order
func (p *Presets) PersonaNames() []string {
	return sortedKeys(p.personas)
}

// JudgeNames returns the judge criteria in sorted order
func (p *Presets) JudgeNames() []string {
	return sortedKeys(p.judges)
}

// PersonaTable returns a copy of the persona table
func (p *Presets) PersonaTable() map[string]domain.WeightVector {
	return copyTable(p.personas)
}

// JudgeTable returns a copy of the judge table
func (p *Presets) JudgeTable() map[string]domain.WeightVector {
	return copyTable(p.judges)
}

// ImportanceTable returns a copy of the importance label table
func (p *Presets) ImportanceTable() map[string]float64 {
	out := make(map[string]float64, len(p.importance))
	for k, v := range p.importance {
		out[k] = v
	}
	return out
}

func presetKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func sortedKeys(m map[string]domain.WeightVector) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyTable(m map[string]domain.WeightVector) map[string]domain.WeightVector {
	out := make(map[string]domain.WeightVector, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
