package controllers

import (
	"net/http"

	"github.com/me0hharryy/dermaGo/api/middleware"
	"github.com/me0hharryy/dermaGo/api/responses"
	"github.com/me0hharryy/dermaGo/internal/gate"
	"github.com/me0hharryy/dermaGo/internal/places"
	"github.com/me0hharryy/dermaGo/internal/quiz"
	"github.com/me0hharryy/dermaGo/internal/scans"
	"github.com/me0hharryy/dermaGo/pkg/enums"
	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
	"github.com/me0hharryy/dermaGo/pkg/logger"
	"github.com/me0hharryy/dermaGo/pkg/maps"
)

// Link is a navigation target on a screen.
type Link struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Href        string `json:"href"`
}

// HomeView is the landing screen.
type HomeView struct {
	Screen   string     `json:"screen"`
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle"`
	Session  gate.State `json:"session"`
	Features []Link     `json:"features"`
	Nav      []Link     `json:"nav"`
}

// AuthFormView describes the login and sign-up screens.
type AuthFormView struct {
	Screen       string `json:"screen"`
	Title        string `json:"title"`
	SubmitAction string `json:"submit_action"`
	SubmitLabel  string `json:"submit_label"`
	GoogleAction string `json:"google_action"`
	GoogleLabel  string `json:"google_label"`
	MinPassword  int    `json:"min_password_length,omitempty"`
	From         string `json:"from"`
	Alternate    Link   `json:"alternate"`
}

// QuizView hands the declarative quiz to a generic step renderer.
type QuizView struct {
	Screen       string       `json:"screen"`
	Schema       *quiz.Schema `json:"schema"`
	SubmitAction string       `json:"submit_action"`
}

// ScannerView describes the product scanner.
type ScannerView struct {
	Screen         string   `json:"screen"`
	LabelAction    string   `json:"label_action"`
	BarcodeAction  string   `json:"barcode_action"`
	AcceptedTypes  []string `json:"accepted_types"`
	MaxUploadBytes int64    `json:"max_upload_bytes"`
}

// MapCategory is one filter on the map screen.
type MapCategory struct {
	ID      enums.PlaceCategory `json:"id"`
	Label   string              `json:"label"`
	Keyword string              `json:"keyword"`
}

// MapView describes the places map.
type MapView struct {
	Screen         string        `json:"screen"`
	Title          string        `json:"title"`
	SearchAction   string        `json:"search_action"`
	Categories     []MapCategory `json:"categories"`
	FallbackCenter maps.LatLng   `json:"fallback_center"`
	RadiusMeters   int           `json:"radius_meters"`
}

var categoryLabels = map[enums.PlaceCategory]string{
	enums.PlaceCategoryRecycling:     "Recycling",
	enums.PlaceCategoryDermatologist: "Dermatologists",
	enums.PlaceCategoryDumping:       "Dump yards",
}

// HomeScreen is public. Signed-out visitors get feature cards that point at
// the login screen.
func HomeScreen(provider middleware.SessionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, _ := provider.Resolve(r)
		signedIn := state.User != nil

		target := func(path string) string {
			if signedIn {
				return path
			}
			return gate.LoginPath
		}

		view := HomeView{
			Screen:   "home",
			Title:    "Welcome to DermatGo",
			Subtitle: "Your personal AI-powered skincare assistant.",
			Session:  state,
			Features: []Link{
				{Label: "Get Your Routine", Description: "Fill out our quiz and let AI build your perfect daily skincare routine.", Href: target("/quiz")},
				{Label: "Scan a Product", Description: "Scan any product's barcode to get a full analysis of its ingredients.", Href: target("/scanner")},
				{Label: "Recycle Map", Description: "Find locations near you to recycle your empty cosmetic containers.", Href: target("/map")},
			},
		}
		if signedIn {
			view.Nav = []Link{
				{Label: "Routine AI", Href: "/quiz"},
				{Label: "Scan Product", Href: "/scanner"},
				{Label: "Recycle Map", Href: "/map"},
				{Label: "Profile", Href: "/profile"},
			}
		} else {
			view.Nav = []Link{
				{Label: "Login", Href: gate.LoginPath},
				{Label: "Sign Up", Href: "/signup"},
			}
		}
		responses.WriteSuccess(w, view)
	}
}

// LoginScreen carries the sanitized "from" so the client can post it back.
func LoginScreen() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, AuthFormView{
			Screen:       "login",
			Title:        "Welcome Back",
			SubmitAction: "/api/v1/auth/login",
			SubmitLabel:  "Login",
			GoogleAction: "/api/v1/auth/google",
			GoogleLabel:  "Sign in with Google",
			From:         gate.SafeReturnPath(r.URL.Query().Get("from")),
			Alternate:    Link{Label: "Don't have an account? Sign Up", Href: "/signup"},
		})
	}
}

func SignUpScreen() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, AuthFormView{
			Screen:       "signup",
			Title:        "Create Your Account",
			SubmitAction: "/api/v1/auth/signup",
			SubmitLabel:  "Sign Up",
			GoogleAction: "/api/v1/auth/google",
			GoogleLabel:  "Sign up with Google",
			MinPassword:  6,
			From:         gate.SafeReturnPath(r.URL.Query().Get("from")),
			Alternate:    Link{Label: "Already have an account? Login", Href: gate.LoginPath},
		})
	}
}

// QuizScreen is gated.
func QuizScreen(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		schema, err := quiz.Default()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load quiz schema"))
			return
		}
		responses.WriteSuccess(w, QuizView{Screen: "quiz", Schema: schema, SubmitAction: "/api/v1/routines"})
	}
}

// ScannerScreen is gated.
func ScannerScreen(maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, ScannerView{
			Screen:         "scanner",
			LabelAction:    "/api/v1/scans/label",
			BarcodeAction:  "/api/v1/scans/barcode",
			AcceptedTypes:  scans.AcceptedImageTypes,
			MaxUploadBytes: maxUploadBytes,
		})
	}
}

// MapScreen is gated.
func MapScreen(svc *places.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories := make([]MapCategory, 0, len(places.Categories))
		for _, c := range places.Categories {
			categories = append(categories, MapCategory{ID: c, Label: categoryLabels[c], Keyword: c.Keyword()})
		}
		responses.WriteSuccess(w, MapView{
			Screen:         "map",
			Title:          "Cosmetic Recycle Map",
			SearchAction:   "/api/v1/places",
			Categories:     categories,
			FallbackCenter: svc.FallbackCenter(),
			RadiusMeters:   svc.RadiusMeters(),
		})
	}
}
