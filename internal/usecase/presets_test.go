package usecase

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/techchoose/backend/internal/domain"
)

func TestDefaultPresets(t *testing.T) {
	p := DefaultPresets()

	wantPersonas := []string{"business", "creator", "gamer", "general", "student"}
	if got := p.PersonaNames(); !reflect.DeepEqual(got, wantPersonas) {
		t.Errorf("PersonaNames() = %v, want %v", got, wantPersonas)
	}

	t.Run("persona lookup is case-insensitive", func(t *testing.T) {
		w, err := p.Persona("  Gamer ")
		if err != nil {
			t.Fatalf("Persona() error = %v", err)
		}
		if w.Performance != 20 {
			t.Errorf("gamer performance = %v, want 20", w.Performance)
		}
	})

	t.Run("student carries a price penalty", func(t *testing.T) {
		w, _ := p.Persona("student")
		if w.PricePenaltyThreshold == nil || *w.PricePenaltyThreshold != 500 {
			t.Errorf("student threshold = %v, want 500", w.PricePenaltyThreshold)
		}
		g, _ := p.Persona("general")
		if g.PricePenaltyThreshold != nil {
			t.Error("general should not carry a price penalty")
		}
	})

	t.Run("unknown persona", func(t *testing.T) {
		_, err := p.Persona("astronaut")
		if !errors.Is(err, domain.ErrUnknownPersona) {
			t.Errorf("error = %v, want ErrUnknownPersona", err)
		}
	})

	t.Run("empty judge selects overall", func(t *testing.T) {
		w, err := p.Judge("")
		if err != nil {
			t.Fatalf("Judge() error = %v", err)
		}
		overall, _ := p.Judge("overall")
		if !reflect.DeepEqual(w, overall) {
			t.Errorf("Judge(\"\") = %+v, want overall %+v", w, overall)
		}
	})

	t.Run("single attribute judge", func(t *testing.T) {
		w, _ := p.Judge("Camera")
		if w != (domain.WeightVector{Camera: 1}) {
			t.Errorf("camera judge = %+v", w)
		}
	})

	t.Run("unknown judge", func(t *testing.T) {
		_, err := p.Judge("vibes")
		if !errors.Is(err, domain.ErrUnknownJudge) {
			t.Errorf("error = %v, want ErrUnknownJudge", err)
		}
	})

	t.Run("importance labels", func(t *testing.T) {
		tests := map[string]float64{
			"Don't Care":   1,
			"Nice to Have": 5,
			"Important":    8,
			"Essential!":   10,
		}
		for label, want := range tests {
			got, err := p.Importance(label)
			if err != nil || got != want {
				t.Errorf("Importance(%q) = %v, %v; want %v", label, got, err, want)
			}
		}
		if _, err := p.Importance("Meh"); !errors.Is(err, domain.ErrUnknownImportance) {
			t.Errorf("error = %v, want ErrUnknownImportance", err)
		}
	})
}

func TestPresetTablesAreCopies(t *testing.T) {
	p := DefaultPresets()

	table := p.PersonaTable()
	delete(table, "gamer")
	if _, err := p.Persona("gamer"); err != nil {
		t.Error("mutating PersonaTable() changed the presets")
	}

	imp := p.ImportanceTable()
	imp["important"] = 0
	if v, _ := p.Importance("important"); v != 8 {
		t.Error("mutating ImportanceTable() changed the presets")
	}
}

func TestParsePresets(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{
			name: "valid",
			yaml: "personas:\n  Photographer:\n    camera: 30\njudges:\n  speed:\n    performance: 1\n",
		},
		{
			name:    "negative persona weight",
			yaml:    "personas:\n  broken:\n    camera: -1\n",
			wantErr: true,
		},
		{
			name:    "negative judge weight",
			yaml:    "judges:\n  broken:\n    value: -2\n",
			wantErr: true,
		},
		{
			name:    "negative importance",
			yaml:    "importance:\n  never: -1\n",
			wantErr: true,
		},
		{
			name:    "NaN importance",
			yaml:    "importance:\n  important: .nan\n",
			wantErr: true,
		},
		{
			name:    "infinite importance",
			yaml:    "importance:\n  must: .inf\n",
			wantErr: true,
		},
		{
			name:    "not yaml",
			yaml:    "personas: [unclosed",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePresets([]byte(tt.yaml))
			if tt.wantErr {
				if err == nil {
					t.Error("ParsePresets() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePresets() error = %v", err)
			}
			w, err := p.Persona("photographer")
			if err != nil || w.Camera != 30 {
				t.Errorf("photographer = %+v, %v", w, err)
			}
		})
	}
}

func TestLoadPresets(t *testing.T) {
	t.Run("empty path uses embedded defaults", func(t *testing.T) {
		p, err := LoadPresets("")
		if err != nil {
			t.Fatalf("LoadPresets() error = %v", err)
		}
		if _, err := p.Persona("creator"); err != nil {
			t.Errorf("creator missing from defaults: %v", err)
		}
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "presets.yaml")
		if err := os.WriteFile(path, []byte("personas:\n  minimal:\n    value: 1\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		p, err := LoadPresets(path)
		if err != nil {
			t.Fatalf("LoadPresets() error = %v", err)
		}
		if got := p.PersonaNames(); !reflect.DeepEqual(got, []string{"minimal"}) {
			t.Errorf("PersonaNames() = %v, want [minimal]", got)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadPresets(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("LoadPresets() error = nil, want error")
		}
	})
}
