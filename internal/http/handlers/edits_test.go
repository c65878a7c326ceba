package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"retouchd/internal/editor"
	"retouchd/internal/infra"
	"retouchd/internal/middleware"
	"retouchd/internal/storage"
)

type stubEditService struct {
	calls       int
	lastKind    editor.Kind
	lastKey     string
	lastPrompt  string
	lastImage   editor.Payload
	lastHotspot editor.Hotspot
	uri         string
	err         error
}

func (s *stubEditService) Retouch(ctx context.Context, apiKey string, image editor.Payload, instruction string, hotspot editor.Hotspot) (string, error) {
	s.record(editor.KindRetouch, apiKey, image, instruction)
	s.lastHotspot = hotspot
	return s.uri, s.err
}

func (s *stubEditService) Filter(ctx context.Context, apiKey string, image editor.Payload, instruction string) (string, error) {
	s.record(editor.KindFilter, apiKey, image, instruction)
	return s.uri, s.err
}

func (s *stubEditService) Adjust(ctx context.Context, apiKey string, image editor.Payload, instruction string) (string, error) {
	s.record(editor.KindAdjust, apiKey, image, instruction)
	return s.uri, s.err
}

func (s *stubEditService) record(kind editor.Kind, apiKey string, image editor.Payload, instruction string) {
	s.calls++
	s.lastKind = kind
	s.lastKey = apiKey
	s.lastImage = image
	s.lastPrompt = instruction
}

var testPNG = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0x02}, 16)...)

func newTestApp(svc EditService, store *storage.FileStore) *App {
	cfg := &infra.Config{MaxUploadBytes: 1 << 20, GeminiAPIKey: ""}
	return NewApp(cfg, zerolog.New(io.Discard), svc, store)
}

func multipartBody(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if withImage {
		fw, err := mw.CreateFormFile("image", "photo.png")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := fw.Write(testPNG); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField(%s): %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func doEdit(t *testing.T, app *App, handler http.HandlerFunc, fields map[string]string, withImage bool, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, withImage)
	r := httptest.NewRequest(http.MethodPost, "/v1/edits/test", body)
	r.Header.Set("Content-Type", contentType)
	for k, v := range header {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}

func TestRetouchSuccess(t *testing.T) {
	svc := &stubEditService{uri: "data:image/png;base64,cmVzdWx0"}
	app := newTestApp(svc, nil)

	w := doEdit(t, app, app.Retouch, map[string]string{
		"prompt":    "remove the scratch",
		"hotspot_x": "10",
		"hotspot_y": "25",
	}, true, map[string]string{"X-API-Key": "user-key"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp editResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Image != svc.uri || resp.MimeType != "image/png" {
		t.Fatalf("response mismatch: %#v", resp)
	}
	if svc.lastKind != editor.KindRetouch || svc.lastKey != "user-key" {
		t.Fatalf("service call mismatch: %#v", svc)
	}
	if svc.lastHotspot != (editor.Hotspot{X: 10, Y: 25}) {
		t.Fatalf("hotspot mismatch: %#v", svc.lastHotspot)
	}
	if svc.lastImage.MimeType != "image/png" || svc.lastImage.Base64Data == "" {
		t.Fatalf("image payload mismatch: %#v", svc.lastImage)
	}
}

func TestRetouchRejectsBadHotspot(t *testing.T) {
	svc := &stubEditService{uri: "data:image/png;base64,cmVzdWx0"}
	app := newTestApp(svc, nil)

	for _, coords := range []map[string]string{
		{"prompt": "p", "hotspot_x": "-1", "hotspot_y": "5"},
		{"prompt": "p", "hotspot_x": "abc", "hotspot_y": "5"},
		{"prompt": "p", "hotspot_y": "5"},
	} {
		w := doEdit(t, app, app.Retouch, coords, true, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("coords %v: status = %d", coords, w.Code)
		}
	}
	if svc.calls != 0 {
		t.Fatalf("service must not be called on invalid input, got %d calls", svc.calls)
	}
}

func TestEditRequiresPromptAndImage(t *testing.T) {
	svc := &stubEditService{}
	app := newTestApp(svc, nil)

	w := doEdit(t, app, app.Filter, map[string]string{}, true, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing prompt: status = %d", w.Code)
	}

	w = doEdit(t, app, app.Filter, map[string]string{"prompt": "noir"}, false, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing image: status = %d", w.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("service must not be called, got %d calls", svc.calls)
	}
}

func TestMissingCredentialMapsTo401(t *testing.T) {
	svc := &stubEditService{err: &editor.Error{Code: editor.CodeMissingCredential, Kind: editor.KindFilter}}
	app := newTestApp(svc, nil)

	w := doEdit(t, app, app.Filter, map[string]string{"prompt": "noir"}, true, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	var resp errorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error != "missing_credential" {
		t.Fatalf("error code mismatch: %#v", resp)
	}
}

func TestUpstreamFailureMapsTo502(t *testing.T) {
	svc := &stubEditService{err: io.ErrUnexpectedEOF}
	app := newTestApp(svc, nil)

	w := doEdit(t, app, app.Adjust, map[string]string{"prompt": "brighter"}, true, nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	var resp errorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error != "upstream" {
		t.Fatalf("error code mismatch: %#v", resp)
	}
}

func TestInterpreterErrorsMapTo422(t *testing.T) {
	for _, code := range []editor.ErrorCode{editor.CodeRequestBlocked, editor.CodeGenerationStopped, editor.CodeNoImage} {
		svc := &stubEditService{err: &editor.Error{Code: code, Kind: editor.KindAdjust, Reason: "SAFETY"}}
		app := newTestApp(svc, nil)

		w := doEdit(t, app, app.Adjust, map[string]string{"prompt": "x"}, true, nil)
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: status = %d, want 422", code, w.Code)
		}
		var resp errorResponse
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if resp.Error != string(code) {
			t.Fatalf("error code mismatch: %#v", resp)
		}
		if resp.Message == "" {
			t.Fatalf("%s: message must be display-ready", code)
		}
	}
}

func TestLocalizedErrorMessage(t *testing.T) {
	svc := &stubEditService{err: &editor.Error{Code: editor.CodeNoImage, Kind: editor.KindFilter}}
	app := newTestApp(svc, nil)

	body, contentType := multipartBody(t, map[string]string{"prompt": "noir"}, true)
	r := httptest.NewRequest(http.MethodPost, "/v1/edits/filter", body)
	r.Header.Set("Content-Type", contentType)
	r = r.WithContext(context.WithValue(r.Context(), middleware.LocaleKey, "id"))
	w := httptest.NewRecorder()
	app.Filter(w, r)

	var resp errorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if !strings.Contains(resp.Message, "Model AI tidak mengembalikan gambar") {
		t.Fatalf("expected Indonesian message, got %q", resp.Message)
	}
}

func TestConfiguredKeyFallback(t *testing.T) {
	svc := &stubEditService{uri: "data:image/png;base64,cmVzdWx0"}
	app := newTestApp(svc, nil)
	app.Config.GeminiAPIKey = "server-key"

	w := doEdit(t, app, app.Filter, map[string]string{"prompt": "noir"}, true, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if svc.lastKey != "server-key" {
		t.Fatalf("expected configured key fallback, got %q", svc.lastKey)
	}
}

func TestResultCopyStored(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	svc := &stubEditService{uri: "data:image/png;base64," + "cmVzdWx0"}
	app := newTestApp(svc, store)

	w := doEdit(t, app, app.Adjust, map[string]string{"prompt": "warmer"}, true, map[string]string{"X-API-Key": "k"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp editResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if !strings.HasPrefix(resp.StorageKey, "edits/adjust/") || !strings.HasSuffix(resp.StorageKey, ".png") {
		t.Fatalf("storage key mismatch: %q", resp.StorageKey)
	}
}
