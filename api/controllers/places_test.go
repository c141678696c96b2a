package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/me0hharryy/dermaGo/internal/places"
	"github.com/me0hharryy/dermaGo/pkg/config"
	"github.com/me0hharryy/dermaGo/pkg/maps"
)

type stubProvider struct {
	last maps.NearbyRequest
}

func (s *stubProvider) Nearby(ctx context.Context, req maps.NearbyRequest) ([]maps.Place, error) {
	s.last = req
	return []maps.Place{{Name: "Green Depot", Vicinity: "Sector 17", Location: maps.LatLng{Lat: 30.74, Lng: 76.78}}}, nil
}

func newPlacesService(t *testing.T, provider places.Provider) *places.Service {
	t.Helper()
	svc, err := places.NewService(places.ServiceParams{
		Provider: provider,
		Config:   config.PlacesConfig{RadiusMeters: 10000, FallbackLat: 30.7333, FallbackLng: 76.7794},
	})
	if err != nil {
		t.Fatalf("new places service: %v", err)
	}
	return svc
}

func TestPlacesNearbyFallsBackOnBadCoordinates(t *testing.T) {
	provider := &stubProvider{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/places?category=dermatologist&lat=north&lng=76", nil)
	resp := httptest.NewRecorder()
	PlacesNearby(newPlacesService(t, provider), nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if provider.last.Keyword != "dermatologist" {
		t.Fatalf("unexpected keyword %q", provider.last.Keyword)
	}
	if provider.last.Location != (maps.LatLng{Lat: 30.7333, Lng: 76.7794}) {
		t.Fatalf("expected fallback center got %+v", provider.last.Location)
	}

	var envelope struct {
		Data places.Result `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !envelope.Data.UsedFallback || len(envelope.Data.Places) != 1 || envelope.Data.Places[0].Address != "Sector 17" {
		t.Fatalf("unexpected result %+v", envelope.Data)
	}
}

func TestPlacesNearbyRejectsUnknownCategory(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/places?category=spa", nil)
	resp := httptest.NewRecorder()
	PlacesNearby(newPlacesService(t, &stubProvider{}), nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
