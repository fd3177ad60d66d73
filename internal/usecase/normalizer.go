package usecase

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/techchoose/backend/internal/domain"
)

// Fallback scores for cells the source does not supply
const (
	DefaultPerformanceScore = 8.0
	DefaultAttributeScore   = 5.0
)

// Raw column names recognized in the source table
const (
	colName        = "name"
	colPrice       = "price"
	colPerformance = "performance"
	colCamera      = "camera"
	colBattery     = "battery"
	colValue       = "value"
	colAntutu      = "antutu"
	colChipset     = "chipset"
	colLink        = "link"
)

// brandScores is checked in order; the first substring found in the name wins
var brandScores = []struct {
	substr string
	score  float64
}{
	{"apple", 10}, {"iphone", 10}, {"ipad", 10},
	{"samsung", 10}, {"galaxy", 10},
	{"google", 9.5}, {"pixel", 9.5},
}

const defaultBrandScore = 9.0

// NormalizerConfig holds configuration for the catalog normalizer
type NormalizerConfig struct {
	AffiliateTag string
}

// Normalizer maps raw catalog rows onto the common 0-10 scale
type Normalizer struct {
	affiliateTag string
}

// NewNormalizer creates a new catalog normalizer
func NewNormalizer(config NormalizerConfig) *Normalizer {
	return &Normalizer{affiliateTag: config.AffiliateTag}
}

// rawDevice is a row that passed the name/price precondition
type rawDevice struct {
	row    domain.RawRow
	name   string
	price  float64
	antutu float64
	hasAnt bool
}

// Normalize converts raw rows into a fully populated catalog. Rows without a
// name or a valid non-negative price are dropped. The result keeps source order.
func (n *Normalizer) Normalize(rows []domain.RawRow) domain.Catalog {
	kept := make([]rawDevice, 0, len(rows))
	var maxAntutu, maxPrice float64

	for _, row := range rows {
		name := strings.TrimSpace(row[colName])
		price, ok := parseNumber(row[colPrice])
		if name == "" || !ok || price < 0 {
			continue
		}

		rd := rawDevice{row: row, name: name, price: price}
		if a, ok := parseNumber(row[colAntutu]); ok && a >= 0 {
			rd.antutu, rd.hasAnt = a, true
			maxAntutu = math.Max(maxAntutu, a)
		}
		maxPrice = math.Max(maxPrice, price)
		kept = append(kept, rd)
	}

	catalog := make(domain.Catalog, 0, len(kept))
	for _, rd := range kept {
		catalog = append(catalog, domain.Device{
			Name:       rd.name,
			Price:      rd.price,
			Chipset:    rd.row[colChipset],
			Link:       DecorateLink(rd.row[colLink], n.affiliateTag),
			Antutu:     int64(rd.antutu),
			OSType:     ClassifyOS(rd.name),
			PerfScore:  performanceScore(rd, maxAntutu),
			CamScore:   scoreOrDefault(rd.row[colCamera], DefaultAttributeScore),
			BattScore:  scoreOrDefault(rd.row[colBattery], DefaultAttributeScore),
			Value:      valueScore(rd, maxPrice),
			BrandScore: BrandScore(rd.name),
		})
	}

	return catalog
}

// performanceScore prefers the benchmark relative to the catalog best, then the
// supplied performance score, then the fixed default.
func performanceScore(rd rawDevice, maxAntutu float64) float64 {
	if rd.hasAnt {
		if maxAntutu <= 0 {
			return 0
		}
		return clip(rd.antutu/maxAntutu, 0, 1) * domain.MaxAttributeScore
	}
	return scoreOrDefault(rd.row[colPerformance], DefaultPerformanceScore)
}

// valueScore uses the supplied value, otherwise derives it from price:
// 10 * (1 - price/max_price) + 1, clipped to the scale.
func valueScore(rd rawDevice, maxPrice float64) float64 {
	if v, ok := parseNumber(rd.row[colValue]); ok {
		return clip(v, 0, domain.MaxAttributeScore)
	}

	ratio := 0.0
	if maxPrice > 0 {
		ratio = rd.price / maxPrice
	}
	return clip(domain.MaxAttributeScore*(1-ratio)+1, 0, domain.MaxAttributeScore)
}

func scoreOrDefault(cell string, fallback float64) float64 {
	if v, ok := parseNumber(cell); ok {
		return clip(v, 0, domain.MaxAttributeScore)
	}
	return fallback
}

// ClassifyOS reports iOS when the name mentions an iPhone or iPad, Android otherwise
func ClassifyOS(name string) domain.OSType {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "iphone") || strings.Contains(lower, "ipad") {
		return domain.OSiOS
	}
	return domain.OSAndroid
}

// BrandScore returns the fixed prestige prior for the brand found in the name
func BrandScore(name string) float64 {
	lower := strings.ToLower(name)
	for _, b := range brandScores {
		if strings.Contains(lower, b.substr) {
			return b.score
		}
	}
	return defaultBrandScore
}

// DecorateLink appends the affiliate tag as a query parameter. Empty links and
// links that already carry a tag are returned unchanged; any fragment stays last.
func DecorateLink(link, tag string) string {
	link = strings.TrimSpace(link)
	if link == "" || tag == "" || hasTagParam(link) {
		return link
	}

	base, fragment := link, ""
	if i := strings.Index(link, "#"); i >= 0 {
		base, fragment = link[:i], link[i:]
	}

	sep := "?"
	switch {
	case strings.HasSuffix(base, "?"), strings.HasSuffix(base, "&"):
		sep = ""
	case strings.Contains(base, "?"):
		sep = "&"
	}

	return base + sep + "tag=" + url.QueryEscape(tag) + fragment
}

// hasTagParam reports whether the link already carries a "tag" query key
func hasTagParam(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return strings.Contains(link, "tag=")
	}
	return u.Query().Has("tag")
}

// parseNumber accepts plain numbers as well as "$1,299" style prices
func parseNumber(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	cell = strings.NewReplacer("$", "", ",", "", " ", "").Replace(cell)

	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
