package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/me0hharryy/dermaGo/api/responses"
	"github.com/me0hharryy/dermaGo/internal/profiles"
	"github.com/me0hharryy/dermaGo/internal/routines"
	"github.com/me0hharryy/dermaGo/internal/scans"
	"github.com/me0hharryy/dermaGo/pkg/db/models"
	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
	"github.com/me0hharryy/dermaGo/pkg/logger"
	"github.com/me0hharryy/dermaGo/pkg/pagination"
)

// profileScreenLimit is how many saved routines and products the profile
// screen shows before the client pages through the list endpoints.
const profileScreenLimit = 10

type profileReader interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// ProfileView is the profile screen.
type ProfileView struct {
	Screen          string                                    `json:"screen"`
	Profile         *profiles.ProfileDTO                      `json:"profile"`
	Routines        pagination.Page[routines.SavedRoutineDTO] `json:"routines"`
	Products        pagination.Page[scans.SavedProductDTO]    `json:"products"`
	SignOutAction   string                                    `json:"sign_out_action"`
	SignOutRedirect string                                    `json:"sign_out_redirect"`
}

// ProfileScreen loads the profile, saved routines and saved products
// concurrently. A user without a profile row still gets the screen.
func ProfileScreen(profileRepo profileReader, routineSvc routines.Service, scanSvc scans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := ProfileView{
			Screen:          "profile",
			SignOutAction:   "/api/v1/auth/logout",
			SignOutRedirect: "/login",
		}
		first := pagination.Params{Limit: profileScreenLimit}

		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			profile, err := profileRepo.FindByUserID(ctx, userID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
			}
			dto := profiles.FromModel(profile)
			view.Profile = &dto
			return nil
		})
		g.Go(func() error {
			page, err := routineSvc.List(ctx, userID, first)
			view.Routines = page
			return err
		})
		g.Go(func() error {
			page, err := scanSvc.List(ctx, userID, first)
			view.Products = page
			return err
		})
		if err := g.Wait(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if view.Routines.Items == nil {
			view.Routines.Items = []routines.SavedRoutineDTO{}
		}
		if view.Products.Items == nil {
			view.Products.Items = []scans.SavedProductDTO{}
		}
		responses.WriteSuccess(w, view)
	}
}
