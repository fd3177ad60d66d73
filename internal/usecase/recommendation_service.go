package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/techchoose/backend/internal/domain"
	"github.com/techchoose/backend/internal/infrastructure/metrics"
)

// defaultImportance mirrors the slider defaults: speed and camera "Important",
// battery and value "Nice to Have", brand unweighted.
var defaultImportance = domain.WeightVector{
	Performance: 8,
	Camera:      8,
	Battery:     5,
	Value:       5,
}

// RecommendationServiceConfig holds configuration for the recommendation service
type RecommendationServiceConfig struct {
	// Alternatives is how many runners-up follow the winner
	Alternatives int
}

// RecommendationService ranks and compares devices from the current catalog
type RecommendationService struct {
	catalogs     domain.CatalogProvider
	presets      *Presets
	alternatives int
	metrics      *metrics.Recorder
	logger       *zap.Logger
}

// NewRecommendationService creates a new recommendation service with dependencies
func NewRecommendationService(
	catalogs domain.CatalogProvider,
	presets *Presets,
	config RecommendationServiceConfig,
	recorder *metrics.Recorder,
	logger *zap.Logger,
) *RecommendationService {
	if presets == nil {
		presets = DefaultPresets()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	alternatives := config.Alternatives
	if alternatives < 0 {
		alternatives = 0
	}

	return &RecommendationService{
		catalogs:     catalogs,
		presets:      presets,
		alternatives: alternatives,
		metrics:      recorder,
		logger:       logger.Named("recommendation"),
	}
}

// Presets returns the preset tables in use
func (s *RecommendationService) Presets() *Presets {
	return s.presets
}

// Recommend ranks the catalog under the given preferences. A data source failure
// returns ErrCatalogUnavailable; an empty ranking is reported through NoMatches.
func (s *RecommendationService) Recommend(ctx context.Context, prefs *domain.Preferences) (*domain.Recommendation, error) {
	if prefs == nil {
		prefs = &domain.Preferences{}
	}

	persona, weights, err := s.ResolveWeights(prefs)
	if err != nil {
		return nil, err
	}
	filters, err := ResolveFilters(prefs)
	if err != nil {
		return nil, err
	}

	catalog, err := s.catalogs.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	ranked := Rank(catalog, weights, filters)
	rec := &domain.Recommendation{
		Persona:      persona,
		Weights:      weights,
		Filters:      filters,
		Alternatives: []domain.ScoredDevice{},
		Matched:      len(ranked),
		CatalogSize:  len(catalog),
		NoMatches:    len(ranked) == 0,
	}

	if len(ranked) > 0 {
		winner := ranked[0]
		rec.Winner = &winner

		end := min(len(ranked), 1+s.alternatives)
		rec.Alternatives = append(rec.Alternatives, ranked[1:end]...)
	}

	s.metrics.Recommendation(persona, !rec.NoMatches)
	s.logger.Debug("ranked catalog",
		zap.String("persona", persona),
		zap.String("os", string(filters.OS)),
		zap.Int("catalog", len(catalog)),
		zap.Int("matched", len(ranked)))

	return rec, nil
}

// Compare runs a head-to-head under a judge criterion. Without DeviceA the
// ranking winner for the request's preferences takes that side.
func (s *RecommendationService) Compare(ctx context.Context, req *domain.CompareRequest) (*domain.Comparison, error) {
	if req == nil || strings.TrimSpace(req.DeviceB) == "" {
		return nil, fmt.Errorf("%w: deviceB is required", domain.ErrInvalidRequest)
	}
	if req.DeviceA == "" && req.Preferences == nil {
		return nil, fmt.Errorf("%w: deviceA or preferences is required", domain.ErrInvalidRequest)
	}

	weights, err := s.presets.Judge(req.Judge)
	if err != nil {
		return nil, err
	}

	catalog, err := s.catalogs.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	b, ok := catalog.FindByName(req.DeviceB)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrDeviceNotFound, req.DeviceB)
	}

	var a domain.Device
	if req.DeviceA != "" {
		if a, ok = catalog.FindByName(req.DeviceA); !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrDeviceNotFound, req.DeviceA)
		}
	} else {
		_, rankWeights, err := s.ResolveWeights(req.Preferences)
		if err != nil {
			return nil, err
		}
		filters, err := ResolveFilters(req.Preferences)
		if err != nil {
			return nil, err
		}
		ranked := Rank(catalog, rankWeights, filters)
		if len(ranked) == 0 {
			return nil, domain.ErrNoMatches
		}
		a = ranked[0].Device
	}

	judge := presetKey(req.Judge)
	if judge == "" {
		judge = DefaultJudge
	}
	s.metrics.Comparison(judge)

	result := Compare(a, b, weights)
	return &result, nil
}

// Devices returns the normalized catalog narrowed by the preference filters
func (s *RecommendationService) Devices(ctx context.Context, prefs *domain.Preferences) (domain.Catalog, error) {
	filters := domain.Filters{OS: domain.OSAny}
	if prefs != nil {
		var err error
		if filters, err = ResolveFilters(prefs); err != nil {
			return nil, err
		}
	}

	catalog, err := s.catalogs.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(catalog, filters), nil
}

// ResolveWeights picks the weight vector for a ranking pass and the persona name
// reported with it. Order: named persona, explicit weights, importance labels,
// then the default custom sliders.
func (s *RecommendationService) ResolveWeights(prefs *domain.Preferences) (string, domain.WeightVector, error) {
	persona := presetKey(prefs.Persona)

	var weights domain.WeightVector
	switch {
	case persona != "" && persona != PersonaCustom:
		w, err := s.presets.Persona(persona)
		if err != nil {
			return "", domain.WeightVector{}, err
		}
		weights = w
	case prefs.Weights != nil:
		weights = *prefs.Weights
	case prefs.Importance != nil:
		w, err := s.importanceWeights(prefs.Importance)
		if err != nil {
			return "", domain.WeightVector{}, err
		}
		weights = w
	default:
		weights = defaultImportance
	}

	if persona == "" {
		persona = PersonaCustom
	}
	if err := ValidateWeights(weights); err != nil {
		return "", domain.WeightVector{}, err
	}
	return persona, weights, nil
}

func (s *RecommendationService) importanceWeights(levels *domain.ImportanceLevels) (domain.WeightVector, error) {
	w := defaultImportance

	for _, field := range []struct {
		label string
		dst   *float64
	}{
		{levels.Performance, &w.Performance},
		{levels.Camera, &w.Camera},
		{levels.Battery, &w.Battery},
		{levels.Value, &w.Value},
		{levels.Brand, &w.Brand},
	} {
		if field.label == "" {
			continue
		}
		v, err := s.presets.Importance(field.label)
		if err != nil {
			return domain.WeightVector{}, err
		}
		*field.dst = v
	}

	return w, nil
}

// ResolveFilters builds hard filters from the preferences
func ResolveFilters(prefs *domain.Preferences) (domain.Filters, error) {
	osFilter, err := ParseOSFilter(prefs.OS)
	if err != nil {
		return domain.Filters{}, err
	}
	if prefs.Budget != nil && *prefs.Budget < 0 {
		return domain.Filters{}, fmt.Errorf("%w: budget must be non-negative", domain.ErrInvalidRequest)
	}
	return domain.Filters{OS: osFilter, Budget: prefs.Budget}, nil
}

// ParseOSFilter accepts "Any", "iOS", "Android" and labels such as "iOS (iPhone)"
func ParseOSFilter(s string) (domain.OSFilter, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	switch {
	case lower == "" || strings.Contains(lower, "any"):
		return domain.OSAny, nil
	case strings.Contains(lower, "ios") || strings.Contains(lower, "iphone"):
		return domain.OSOnlyiOS, nil
	case strings.Contains(lower, "android"):
		return domain.OSOnlyAndroid, nil
	}
	return "", fmt.Errorf("%w: unknown os %q", domain.ErrInvalidRequest, s)
}
