package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"retouchd/internal/editor"
	"retouchd/internal/i18n"
	"retouchd/internal/infra"
	"retouchd/internal/middleware"
	"retouchd/internal/storage"
)

// EditService is the contract the HTTP layer depends on. It is satisfied by
// *editor.Editor.
type EditService interface {
	Retouch(ctx context.Context, apiKey string, image editor.Payload, instruction string, hotspot editor.Hotspot) (string, error)
	Filter(ctx context.Context, apiKey string, image editor.Payload, instruction string) (string, error)
	Adjust(ctx context.Context, apiKey string, image editor.Payload, instruction string) (string, error)
}

// App is the handler container.
type App struct {
	Config *infra.Config
	Logger zerolog.Logger
	Editor EditService
	Store  *storage.FileStore
}

// NewApp wires the handler container. Store may be nil to disable result copies.
func NewApp(cfg *infra.Config, logger zerolog.Logger, svc EditService, store *storage.FileStore) *App {
	return &App{Config: cfg, Logger: logger, Editor: svc, Store: store}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error writes a machine code plus a message localized for the request.
func (a *App) error(w http.ResponseWriter, r *http.Request, status int, code, messageKey string, args ...any) {
	locale := middleware.LocaleFromContext(r.Context())
	a.json(w, status, errorResponse{Error: code, Message: i18n.Message(locale, messageKey, args...)})
}

// editError maps the editor taxonomy onto HTTP statuses and localized display
// strings. Transport failures fall through as a 502 with generic phrasing.
func (a *App) editError(w http.ResponseWriter, r *http.Request, err error) {
	locale := middleware.LocaleFromContext(r.Context())

	var typed *editor.Error
	if !errors.As(err, &typed) {
		a.Logger.Error().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("upstream call failed")
		a.json(w, http.StatusBadGateway, errorResponse{Error: "upstream", Message: i18n.Message(locale, "error.upstream")})
		return
	}

	status := http.StatusUnprocessableEntity
	switch typed.Code {
	case editor.CodeMissingCredential:
		status = http.StatusUnauthorized
	case editor.CodeDecodeFailed:
		status = http.StatusBadRequest
	}
	a.json(w, status, errorResponse{Error: string(typed.Code), Message: i18n.LocalizeEditError(locale, typed)})
}
