package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"conversions/actions"
	"conversions/auth"
	"conversions/logger"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

type dispatcher interface {
	Dispatch(ctx context.Context, name string, body []byte) (interface{}, error)
}

type tokenVerifier interface {
	Verify(token string) (string, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	actions  dispatcher
	verifier tokenVerifier
	db       pinger
}

// NewHandler wires HTTP handlers. verifier and db may be nil.
func NewHandler(actionService dispatcher, verifier tokenVerifier, db pinger) *Handler {
	return &Handler{actions: actionService, verifier: verifier, db: db}
}

type errorResponse struct {
	Success bool           `json:"success"`
	Error   *actions.Error `json:"error"`
}

type successResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// authenticate attaches the bearer token subject to the request context.
// Requests without a valid token continue anonymously; each action decides
// whether a user is required.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.verifier == nil {
			next.ServeHTTP(w, r)
			return
		}

		token, err := auth.BearerToken(r.Header.Get("Authorization"))
		if err != nil {
			if !errors.Is(err, auth.ErrMissingToken) {
				logger.Debugf("Rejected authorization header from %s: %v", r.RemoteAddr, err)
			}
			next.ServeHTTP(w, r)
			return
		}

		userID, err := h.verifier.Verify(token)
		if err != nil {
			logger.Debugf("Invalid token from %s: %v", r.RemoteAddr, err)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), userID)))
	})
}

// Action handles POST /api/actions/{action}.
func (h *Handler) Action(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["action"]
	logger.Debugf("Action request: action=%s, remoteAddr=%s", name, r.RemoteAddr)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, actions.Validation("request body too large or unreadable", nil))
		return
	}

	data, err := h.actions.Dispatch(r.Context(), name, body)
	if err != nil {
		writeError(w, r, actions.AsError(err))
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true, Data: data})
}

// ListActions handles GET /api/actions.
func (h *Handler) ListActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, successResponse{Success: true, Data: map[string]interface{}{
		"items": actions.Names(),
	}})
}

func statusFor(code actions.Code) int {
	switch code {
	case actions.CodeUnauthorized:
		return http.StatusUnauthorized
	case actions.CodeNotFound:
		return http.StatusNotFound
	case actions.CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, actionErr *actions.Error) {
	if actionErr.Code == actions.CodeInternal {
		logger.Errorf("Action %s failed: %v", mux.Vars(r)["action"], actionErr)
		if cause := errors.Unwrap(actionErr); cause != nil {
			sentry.CaptureException(cause)
		}
	} else {
		logger.Debugf("Action %s rejected: %v", mux.Vars(r)["action"], actionErr)
	}
	writeJSON(w, statusFor(actionErr.Code), errorResponse{Success: false, Error: actionErr})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Errorf("Failed to encode response: %v", err)
	}
}
