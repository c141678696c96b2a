// Package places finds recycling sites, dermatologists and dump yards near
// the user.
package places

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/me0hharryy/dermaGo/pkg/config"
	"github.com/me0hharryy/dermaGo/pkg/enums"
	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
	"github.com/me0hharryy/dermaGo/pkg/logger"
	"github.com/me0hharryy/dermaGo/pkg/maps"
	"github.com/me0hharryy/dermaGo/pkg/metrics"
	redisclient "github.com/me0hharryy/dermaGo/pkg/redis"
)

// Categories lists the map filters in display order.
var Categories = []enums.PlaceCategory{
	enums.PlaceCategoryRecycling,
	enums.PlaceCategoryDermatologist,
	enums.PlaceCategoryDumping,
}

// Provider runs nearby searches.
type Provider interface {
	Nearby(ctx context.Context, req maps.NearbyRequest) ([]maps.Place, error)
}

// Cache stores serialized results keyed by category and center.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	PlacesKey(category string, lat, lng float64) string
}

// Query is a lookup request. Lat and Lng are the device position when the
// client has one.
type Query struct {
	Category string
	Lat      *float64
	Lng      *float64
}

// Marker is one pin on the map.
type Marker struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
}

// Result is a lookup answer.
type Result struct {
	Category     enums.PlaceCategory `json:"category"`
	Center       maps.LatLng         `json:"center"`
	UsedFallback bool                `json:"used_fallback"`
	RadiusMeters int                 `json:"radius_meters"`
	Places       []Marker            `json:"places"`
}

// ServiceParams groups dependencies for the places service.
type ServiceParams struct {
	Provider Provider
	Cache    Cache
	Config   config.PlacesConfig
	Metrics  *metrics.PlacesMetrics
	Logger   *logger.Logger
}

// Service answers nearby lookups.
type Service struct {
	provider Provider
	cache    Cache
	cfg      config.PlacesConfig
	metrics  *metrics.PlacesMetrics
	logg     *logger.Logger
}

// NewService builds the places service. Cache may be nil.
func NewService(params ServiceParams) (*Service, error) {
	if params.Provider == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "places provider is required")
	}
	cfg := params.Config
	if cfg.RadiusMeters <= 0 {
		cfg.RadiusMeters = 10000
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{provider: params.Provider, cache: params.Cache, cfg: cfg, metrics: params.Metrics, logg: logg}, nil
}

// FallbackCenter is where searches run when no usable device position is sent.
func (s *Service) FallbackCenter() maps.LatLng {
	return maps.LatLng{Lat: s.cfg.FallbackLat, Lng: s.cfg.FallbackLng}
}

// RadiusMeters is the search radius.
func (s *Service) RadiusMeters() int {
	return s.cfg.RadiusMeters
}

// Center picks the search center for q, falling back silently when the
// device position is missing or out of range.
func (s *Service) Center(q Query) (maps.LatLng, bool) {
	if q.Lat == nil || q.Lng == nil || !validCoord(*q.Lat, 90) || !validCoord(*q.Lng, 180) {
		return s.FallbackCenter(), true
	}
	return maps.LatLng{Lat: *q.Lat, Lng: *q.Lng}, false
}

// Nearby returns the places of q's category around the chosen center.
func (s *Service) Nearby(ctx context.Context, q Query) (Result, error) {
	category, err := enums.ParsePlaceCategory(q.Category)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown place category").
			WithDetails(map[string]any{"category": q.Category, "allowed": Categories})
	}
	center, fallback := s.Center(q)
	result := Result{Category: category, Center: center, UsedFallback: fallback, RadiusMeters: s.cfg.RadiusMeters}

	key := ""
	if s.cache != nil {
		key = s.cache.PlacesKey(category.String(), center.Lat, center.Lng)
		if markers, ok := s.fromCache(ctx, key); ok {
			s.metrics.IncLookup(category.String(), metrics.SourceCache)
			result.Places = markers
			return result, nil
		}
	}

	found, err := s.provider.Nearby(ctx, maps.NearbyRequest{
		Location:     center,
		RadiusMeters: s.cfg.RadiusMeters,
		Keyword:      category.Keyword(),
	})
	if err != nil {
		return Result{}, err
	}
	s.metrics.IncLookup(category.String(), metrics.SourceProvider)

	markers := make([]Marker, 0, len(found))
	for _, p := range found {
		markers = append(markers, Marker{Lat: p.Location.Lat, Lng: p.Location.Lng, Name: p.Name, Address: p.Vicinity})
	}
	result.Places = markers

	if key != "" && s.cfg.CacheTTL > 0 {
		if raw, err := json.Marshal(markers); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.cfg.CacheTTL); err != nil {
				s.logg.Warn(s.logg.WithField(ctx, "cache_key", key), "places cache write failed: "+err.Error())
			}
		}
	}
	return result, nil
}

func (s *Service) fromCache(ctx context.Context, key string) ([]Marker, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !redisclient.IsMiss(err) {
			s.logg.Warn(s.logg.WithField(ctx, "cache_key", key), "places cache read failed: "+err.Error())
		}
		return nil, false
	}
	var markers []Marker
	if err := json.Unmarshal([]byte(raw), &markers); err != nil {
		return nil, false
	}
	if markers == nil {
		markers = []Marker{}
	}
	return markers, true
}

func validCoord(v, limit float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -limit && v <= limit
}
