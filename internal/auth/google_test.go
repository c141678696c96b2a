package auth

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/api/idtoken"
)

func TestIDTokenVerifierMapsClaims(t *testing.T) {
	v, err := NewIDTokenVerifier("client.apps.googleusercontent.com")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	var gotAudience string
	v.validate = func(_ context.Context, _ string, audience string) (*idtoken.Payload, error) {
		gotAudience = audience
		return &idtoken.Payload{
			Subject: "sub-1",
			Claims:  map[string]any{"email": "a@example.com", "email_verified": "true", "name": "A"},
		}, nil
	}

	id, err := v.Verify(context.Background(), "raw")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if gotAudience != "client.apps.googleusercontent.com" {
		t.Fatalf("expected audience forwarded, got %q", gotAudience)
	}
	want := GoogleIdentity{Subject: "sub-1", Email: "a@example.com", EmailVerified: true, Name: "A"}
	if id != want {
		t.Fatalf("expected %+v got %+v", want, id)
	}

	v.validate = func(context.Context, string, string) (*idtoken.Payload, error) {
		return nil, errors.New("expired")
	}
	if _, err := v.Verify(context.Background(), "raw"); err == nil {
		t.Fatal("expected validation error to surface")
	}
}

func TestNewIDTokenVerifierRequiresAudience(t *testing.T) {
	if _, err := NewIDTokenVerifier(" "); err == nil {
		t.Fatal("expected blank audience to fail")
	}
}
