package maps

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
)

func TestClientNearbyRequest(t *testing.T) {
	respBody := `{"status":"OK","results":[{"place_id":"p1","name":"Green Recycling","vicinity":"Sector 17, Chandigarh","geometry":{"location":{"lat":30.74,"lng":76.78}}}]}`

	var captured *http.Request
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(http.StatusOK, respBody), nil
	})

	places, err := client.Nearby(context.Background(), NearbyRequest{
		Location:     LatLng{Lat: 30.7333, Lng: 76.7794},
		RadiusMeters: 10000,
		Keyword:      "waste management facility",
	})
	if err != nil {
		t.Fatalf("nearby: %v", err)
	}

	if captured.URL.Path != "/place/nearbysearch/json" {
		t.Fatalf("unexpected path %q", captured.URL.Path)
	}
	q := captured.URL.Query()
	if q.Get("location") != "30.7333,76.7794" {
		t.Fatalf("unexpected location %q", q.Get("location"))
	}
	if q.Get("radius") != "10000" {
		t.Fatalf("unexpected radius %q", q.Get("radius"))
	}
	if q.Get("keyword") != "waste management facility" {
		t.Fatalf("unexpected keyword %q", q.Get("keyword"))
	}
	if q.Get("key") != "test-key" {
		t.Fatalf("api key missing")
	}

	if len(places) != 1 {
		t.Fatalf("expected one place, got %d", len(places))
	}
	p := places[0]
	if p.Name != "Green Recycling" || p.Vicinity != "Sector 17, Chandigarh" || p.Location.Lat != 30.74 || p.Location.Lng != 76.78 {
		t.Fatalf("unexpected place %+v", p)
	}
}

func TestClientNearbyZeroResults(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"status":"ZERO_RESULTS","results":[]}`), nil
	})

	places, err := client.Nearby(context.Background(), NearbyRequest{Location: LatLng{}, RadiusMeters: 100, Keyword: "dump yard"})
	if err != nil {
		t.Fatalf("zero results should not error: %v", err)
	}
	if places == nil || len(places) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", places)
	}
}

func TestClientNearbyProviderErrors(t *testing.T) {
	cases := map[string]*http.Response{
		"denied status": jsonResponse(http.StatusOK, `{"status":"REQUEST_DENIED","error_message":"bad key"}`),
		"http failure":  jsonResponse(http.StatusInternalServerError, `oops`),
		"bad json":      jsonResponse(http.StatusOK, `{`),
	}
	for name, resp := range cases {
		resp := resp
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(*http.Request) (*http.Response, error) { return resp, nil })
			_, err := client.Nearby(context.Background(), NearbyRequest{RadiusMeters: 100, Keyword: "dermatologist"})
			if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
				t.Fatalf("expected dependency error, got %v", err)
			}
		})
	}
}

func TestClientNearbyValidatesInput(t *testing.T) {
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})
	if _, err := client.Nearby(context.Background(), NearbyRequest{RadiusMeters: 10}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank keyword, got %v", err)
	}
	if _, err := client.Nearby(context.Background(), NearbyRequest{Keyword: "x"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for radius, got %v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected missing key error")
	}
}

func newTestClient(t *testing.T, fn roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient("test-key", WithBaseURL("http://maps.test/place"), WithHTTPClient(&http.Client{Transport: fn}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
