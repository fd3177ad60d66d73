package usecase

import (
	"math"
	"testing"

	"github.com/techchoose/backend/internal/domain"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNormalize_DropsRowsWithoutNameOrPrice(t *testing.T) {
	n := NewNormalizer(NormalizerConfig{})
	rows := []domain.RawRow{
		{"name": "iPhone 15", "price": "999"},
		{"price": "499"},
		{"name": "No Price"},
		{"name": "Bad Price", "price": "call us"},
		{"name": "Negative", "price": "-5"},
		{"name": "   ", "price": "100"},
		{"name": "Galaxy A54", "price": "$1,049"},
	}

	catalog := n.Normalize(rows)

	if len(catalog) != 2 {
		t.Fatalf("len(catalog) = %d, want 2", len(catalog))
	}
	if catalog[0].Name != "iPhone 15" || catalog[1].Name != "Galaxy A54" {
		t.Errorf("catalog order = [%s, %s], want [iPhone 15, Galaxy A54]", catalog[0].Name, catalog[1].Name)
	}
	if catalog[1].Price != 1049 {
		t.Errorf("Price = %v, want 1049", catalog[1].Price)
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	n := NewNormalizer(NormalizerConfig{})

	if got := n.Normalize(nil); len(got) != 0 {
		t.Errorf("Normalize(nil) = %v, want empty", got)
	}
}

func TestNormalize_PerformanceScore(t *testing.T) {
	n := NewNormalizer(NormalizerConfig{})

	t.Run("antutu relative to catalog best", func(t *testing.T) {
		catalog := n.Normalize([]domain.RawRow{
			{"name": "A", "price": "1", "antutu": "2000000", "performance": "1"},
			{"name": "B", "price": "1", "antutu": "1000000"},
			{"name": "C", "price": "1", "performance": "7"},
			{"name": "D", "price": "1"},
		})

		want := []float64{10, 5, 7, DefaultPerformanceScore}
		for i, w := range want {
			if !approxEqual(catalog[i].PerfScore, w) {
				t.Errorf("%s PerfScore = %v, want %v", catalog[i].Name, catalog[i].PerfScore, w)
			}
		}
		if catalog[0].Antutu != 2000000 {
			t.Errorf("Antutu = %d, want 2000000", catalog[0].Antutu)
		}
	})

	t.Run("zero benchmark maximum", func(t *testing.T) {
		catalog := n.Normalize([]domain.RawRow{
			{"name": "A", "price": "1", "antutu": "0"},
		})
		if catalog[0].PerfScore != 0 {
			t.Errorf("PerfScore = %v, want 0", catalog[0].PerfScore)
		}
	})

	t.Run("no benchmark or performance column", func(t *testing.T) {
		catalog := n.Normalize([]domain.RawRow{{"name": "A", "price": "1"}})
		if catalog[0].PerfScore != 8.0 {
			t.Errorf("PerfScore = %v, want 8.0", catalog[0].PerfScore)
		}
	})
}

func TestNormalize_MissingCameraUsesDefault(t *testing.T) {
	n := NewNormalizer(NormalizerConfig{})
	catalog := n.Normalize([]domain.RawRow{
		{"name": "Pixel 8", "price": "699", "performance": "8", "battery": "7"},
	})

	if catalog[0].CamScore != DefaultAttributeScore {
		t.Errorf("CamScore = %v, want %v", catalog[0].CamScore, DefaultAttributeScore)
	}
	if catalog[0].BattScore != 7 {
		t.Errorf("BattScore = %v, want 7", catalog[0].BattScore)
	}
}

func TestNormalize_ValueScore(t *testing.T) {
	n := NewNormalizer(NormalizerConfig{})
	catalog := n.Normalize([]domain.RawRow{
		{"name": "iPhone 15", "price": "999"},
		{"name": "Galaxy A54", "price": "449"},
		{"name": "Free Phone", "price": "0"},
		{"name": "Rated", "price": "500", "value": "7.5"},
	})

	tests := []struct {
		name string
		want float64
	}{
		{"iPhone 15", 1},
		{"Galaxy A54", 10*(1-449.0/999.0) + 1},
		{"Free Phone", 10},
		{"Rated", 7.5},
	}

	for i, tt := range tests {
		if !approxEqual(catalog[i].Value, tt.want) {
			t.Errorf("%s Value = %v, want %v", tt.name, catalog[i].Value, tt.want)
		}
	}
}

func TestNormalize_ValueScoreAllPricesZero(t *testing.T) {
	n := NewNormalizer(NormalizerConfig{})
	catalog := n.Normalize([]domain.RawRow{{"name": "A", "price": "0"}})

	if catalog[0].Value != 10 {
		t.Errorf("Value = %v, want 10", catalog[0].Value)
	}
}

func TestNormalize_ScoresStayInBounds(t *testing.T) {
	n := NewNormalizer(NormalizerConfig{})
	catalog := n.Normalize([]domain.RawRow{
		{"name": "Over", "price": "10", "performance": "15", "camera": "11", "battery": "99", "value": "42"},
		{"name": "Under", "price": "20", "performance": "-3", "camera": "-1", "battery": "-0.5", "value": "-2"},
		{"name": "Bench", "price": "30", "antutu": "-100"},
		{"name": "Junk", "price": "40", "camera": "NaN", "battery": "Inf"},
	})

	for _, d := range catalog {
		for _, attr := range domain.Attributes {
			if s := d.Score(attr); s < 0 || s > 10 {
				t.Errorf("%s %s = %v, want within [0, 10]", d.Name, attr, s)
			}
		}
	}
}

func TestClassifyOS(t *testing.T) {
	tests := []struct {
		name string
		want domain.OSType
	}{
		{"iPhone 15 Pro", domain.OSiOS},
		{"IPHONE SE", domain.OSiOS},
		{"iPad mini", domain.OSiOS},
		{"Galaxy S24", domain.OSAndroid},
		{"Apple Watch", domain.OSAndroid},
		{"", domain.OSAndroid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyOS(tt.name); got != tt.want {
				t.Errorf("ClassifyOS(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestBrandScore(t *testing.T) {
	tests := []struct {
		name string
		want float64
	}{
		{"Apple iPhone 15", 10},
		{"iPhone 13 mini", 10},
		{"Samsung Galaxy S24", 10},
		{"Galaxy A54", 10},
		{"Google Pixel 8", 9.5},
		{"Pixel 7a", 9.5},
		{"OnePlus 12", 9.0},
		{"Xiaomi 14", 9.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BrandScore(tt.name); got != tt.want {
				t.Errorf("BrandScore(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestDecorateLink(t *testing.T) {
	tests := []struct {
		name string
		link string
		tag  string
		want string
	}{
		{"empty link", "", "tc-20", ""},
		{"empty tag", "https://amzn.to/x", "", "https://amzn.to/x"},
		{"no query", "https://amzn.to/x", "tc-20", "https://amzn.to/x?tag=tc-20"},
		{"existing query", "https://a.com/p?id=1", "tc-20", "https://a.com/p?id=1&tag=tc-20"},
		{"trailing question mark", "https://a.com/p?", "tc-20", "https://a.com/p?tag=tc-20"},
		{"already tagged", "https://a.com/p?tag=other", "tc-20", "https://a.com/p?tag=other"},
		{"tagged after other params", "https://a.com/p?id=1&tag=other", "tc-20", "https://a.com/p?id=1&tag=other"},
		{"hashtag is not a tag", "https://a.com/p?hashtag=x", "tc-20", "https://a.com/p?hashtag=x&tag=tc-20"},
		{"utm_tag is not a tag", "https://a.com/p?utm_tag=y", "tc-20", "https://a.com/p?utm_tag=y&tag=tc-20"},
		{"fragment stays last", "https://a.com/p#reviews", "tc-20", "https://a.com/p?tag=tc-20#reviews"},
		{"missing scheme", "amzn.to/x", "tc-20", "amzn.to/x?tag=tc-20"},
		{"garbage", "%%not a url", "tc-20", "%%not a url?tag=tc-20"},
		{"tag is escaped", "https://a.com", "a b&c", "https://a.com?tag=a+b%26c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecorateLink(tt.link, tt.tag); got != tt.want {
				t.Errorf("DecorateLink(%q, %q) = %q, want %q", tt.link, tt.tag, got, tt.want)
			}
		})
	}
}

func TestNormalize_DecoratesLinks(t *testing.T) {
	n := NewNormalizer(NormalizerConfig{AffiliateTag: "tc-20"})
	catalog := n.Normalize([]domain.RawRow{
		{"name": "Pixel 8", "price": "699", "link": "https://amzn.to/pixel", "chipset": "Tensor G3"},
	})

	if catalog[0].Link != "https://amzn.to/pixel?tag=tc-20" {
		t.Errorf("Link = %q", catalog[0].Link)
	}
	if catalog[0].Chipset != "Tensor G3" {
		t.Errorf("Chipset = %q, want Tensor G3", catalog[0].Chipset)
	}
}
