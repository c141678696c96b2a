package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/me0hharryy/dermaGo/api/middleware"
	"github.com/me0hharryy/dermaGo/api/responses"
	"github.com/me0hharryy/dermaGo/pkg/auth/session"
	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
	"github.com/me0hharryy/dermaGo/pkg/logger"
)

const sessionHeartbeat = 25 * time.Second

type sessionSubscriber interface {
	Subscribe(ctx context.Context, userID uuid.UUID) (<-chan session.Event, func())
}

// AuthSessionEvents streams the caller's session state changes as
// Server-Sent Events. The first event is the current state. Sign-outs of the
// user's other sessions are not forwarded. The stream ends when the client
// goes away, this session signs out, or the server shuts down.
func AuthSessionEvents(observer sessionSubscriber, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		claims := middleware.ClaimsFromContext(ctx)
		if claims == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		rc := http.NewResponseController(w)
		events, cancel := observer.Subscribe(ctx, claims.UserID)
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		sessionID := claims.ID
		current := session.Event{UserID: claims.UserID, SessionID: sessionID, State: session.StateSignedIn, At: time.Now().UTC()}
		if err := writeEvent(w, rc, current); err != nil {
			return
		}

		heartbeat := time.NewTicker(sessionHeartbeat)
		defer heartbeat.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-heartbeat.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				if err := rc.Flush(); err != nil {
					return
				}
			case ev, ok := <-events:
				if !ok {
					return
				}
				if ev.ReplacesSessionID != "" && ev.ReplacesSessionID == sessionID {
					sessionID = ev.SessionID
				}
				if ev.State == session.StateSignedOut && ev.SessionID != sessionID {
					continue
				}
				if err := writeEvent(w, rc, ev); err != nil {
					if logg != nil {
						logg.Warn(logg.WithField(ctx, "reason", err.Error()), "session_events.write_failed")
					}
					return
				}
				if ev.State == session.StateSignedOut {
					return
				}
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, rc *http.ResponseController, ev session.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: session\ndata: %s\n\n", data); err != nil {
		return err
	}
	return rc.Flush()
}
