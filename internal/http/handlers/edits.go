package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"retouchd/internal/editor"
	"retouchd/internal/middleware"
)

type editResponse struct {
	Image      string `json:"image"`
	MimeType   string `json:"mime_type"`
	RequestID  string `json:"request_id"`
	StorageKey string `json:"storage_key,omitempty"`
}

// Retouch handles POST /v1/edits/retouch: a localized edit focused on the
// hotspot fields of the multipart form.
func (a *App) Retouch(w http.ResponseWriter, r *http.Request) {
	form, ok := a.parseEditForm(w, r)
	if !ok {
		return
	}
	x, okX := formCoordinate(r, "hotspot_x")
	y, okY := formCoordinate(r, "hotspot_y")
	if !okX || !okY {
		a.error(w, r, http.StatusBadRequest, "bad_request", "error.bad_request", "hotspot_x and hotspot_y must be non-negative integers")
		return
	}
	a.runEdit(w, r, editor.KindRetouch, func(ctx context.Context) (string, error) {
		return a.Editor.Retouch(ctx, form.apiKey, form.image, form.prompt, editor.Hotspot{X: x, Y: y})
	})
}

// Filter handles POST /v1/edits/filter: a stylistic filter over the whole image.
func (a *App) Filter(w http.ResponseWriter, r *http.Request) {
	form, ok := a.parseEditForm(w, r)
	if !ok {
		return
	}
	a.runEdit(w, r, editor.KindFilter, func(ctx context.Context) (string, error) {
		return a.Editor.Filter(ctx, form.apiKey, form.image, form.prompt)
	})
}

// Adjust handles POST /v1/edits/adjust: a global adjustment over the whole image.
func (a *App) Adjust(w http.ResponseWriter, r *http.Request) {
	form, ok := a.parseEditForm(w, r)
	if !ok {
		return
	}
	a.runEdit(w, r, editor.KindAdjust, func(ctx context.Context) (string, error) {
		return a.Editor.Adjust(ctx, form.apiKey, form.image, form.prompt)
	})
}

type editForm struct {
	apiKey string
	image  editor.Payload
	prompt string
}

// parseEditForm extracts the shared multipart fields. The API key check is
// deliberately left to the editor so it always precedes any upstream work,
// whether a handler or another caller drives it.
func (a *App) parseEditForm(w http.ResponseWriter, r *http.Request) (editForm, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, a.Config.MaxUploadBytes)
	if err := r.ParseMultipartForm(a.Config.MaxUploadBytes); err != nil {
		a.error(w, r, http.StatusBadRequest, "bad_request", "error.bad_request", "expected a multipart form with an image file")
		return editForm{}, false
	}

	prompt := strings.TrimSpace(r.FormValue("prompt"))
	if prompt == "" {
		a.error(w, r, http.StatusBadRequest, "bad_request", "error.bad_request", "prompt is required")
		return editForm{}, false
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		a.error(w, r, http.StatusBadRequest, "bad_request", "error.bad_request", "image file is required")
		return editForm{}, false
	}
	defer file.Close()

	image, err := editor.ReadPayload(file)
	if err != nil {
		a.editError(w, r, err)
		return editForm{}, false
	}

	apiKey := strings.TrimSpace(r.Header.Get("X-API-Key"))
	if apiKey == "" {
		apiKey = a.Config.GeminiAPIKey
	}

	return editForm{apiKey: apiKey, image: image, prompt: prompt}, true
}

func (a *App) runEdit(w http.ResponseWriter, r *http.Request, kind editor.Kind, op func(ctx context.Context) (string, error)) {
	uri, err := op(r.Context())
	if err != nil {
		a.editError(w, r, err)
		return
	}

	result, err := editor.ParseDataURI(uri)
	if err != nil {
		a.editError(w, r, err)
		return
	}

	requestID := middleware.RequestIDFromContext(r.Context())
	if requestID == "" {
		requestID = uuid.NewString()
	}
	resp := editResponse{Image: uri, MimeType: result.MimeType, RequestID: requestID}
	if a.Store != nil {
		if key, err := a.saveResult(r.Context(), kind, requestID, result); err != nil {
			a.Logger.Warn().Err(err).Str("request_id", requestID).Msg("failed to store result copy")
		} else {
			resp.StorageKey = key
		}
	}

	a.json(w, http.StatusOK, resp)
}

func (a *App) saveResult(ctx context.Context, kind editor.Kind, requestID string, result editor.Payload) (string, error) {
	data, err := result.Bytes()
	if err != nil {
		return "", err
	}
	return a.Store.SaveResult(ctx, string(kind), requestID, result.MimeType, data)
}

func formCoordinate(r *http.Request, field string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(r.FormValue(field)))
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
