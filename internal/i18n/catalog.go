// Package i18n renders user-facing messages for the locales the service
// supports. The catalog is data: adding a locale means adding a message table,
// not touching control logic.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"retouchd/internal/editor"
)

var supported = []language.Tag{
	language.English,
	language.Indonesian,
}

var matcher = language.NewMatcher(supported)

// MatchLocale normalizes a raw locale tag (header value, config default) to a
// supported catalog locale. Unknown or empty input maps to English.
func MatchLocale(raw string) string {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "en"
	}
	_, idx, _ := matcher.Match(tag)
	if idx == 1 {
		return "id"
	}
	return "en"
}

// Operation nouns used inside error phrasing.
var kindNames = map[string]map[editor.Kind]string{
	"en": {
		editor.KindRetouch: "edit",
		editor.KindFilter:  "filter",
		editor.KindAdjust:  "adjustment",
	},
	"id": {
		editor.KindRetouch: "pengeditan",
		editor.KindFilter:  "filter",
		editor.KindAdjust:  "penyesuaian",
	},
}

var messages = map[string]map[string]string{
	"en": {
		"error.missing_credential": "An API key is required to edit images. Please provide your Gemini API key.",
		"error.decode_failed":      "The selected image could not be read. Please choose a different image file.",
		"error.request_blocked":    "Request for the %s was blocked. Reason: %s.",
		"error.generation_stopped": "Image generation for the %s stopped unexpectedly. Reason: %s. This often relates to the safety settings.",
		"error.no_image_text":      "The AI model did not return an image for the %s. The model responded with text: %q",
		"error.no_image":           "The AI model did not return an image for the %s. This can happen due to safety filters or if the request is too complex. Please try rephrasing your prompt to be more direct.",
		"error.upstream":           "The image service could not be reached. Please try again.",
		"error.bad_request":        "The request is invalid: %s",
	},
	"id": {
		"error.missing_credential": "Kunci API diperlukan untuk mengedit gambar. Silakan masukkan kunci API Gemini Anda.",
		"error.decode_failed":      "Gambar yang dipilih tidak dapat dibaca. Silakan pilih berkas gambar lain.",
		"error.request_blocked":    "Permintaan %s diblokir. Alasan: %s.",
		"error.generation_stopped": "Pembuatan gambar untuk %s berhenti secara tidak terduga. Alasan: %s. Hal ini biasanya terkait pengaturan keamanan.",
		"error.no_image_text":      "Model AI tidak mengembalikan gambar untuk %s. Model menjawab dengan teks: %q",
		"error.no_image":           "Model AI tidak mengembalikan gambar untuk %s. Ini bisa terjadi karena filter keamanan atau permintaan yang terlalu rumit. Coba ubah instruksi Anda menjadi lebih langsung.",
		"error.upstream":           "Layanan gambar tidak dapat dihubungi. Silakan coba lagi.",
		"error.bad_request":        "Permintaan tidak valid: %s",
	},
}

// Message renders a catalog entry. Locales fall back to English; unknown keys
// fall back to the key itself so a miss is visible rather than silent.
func Message(locale, key string, args ...any) string {
	table, ok := messages[locale]
	if !ok {
		table = messages["en"]
	}
	format, ok := table[key]
	if !ok {
		format = messages["en"][key]
	}
	if format == "" {
		return key
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// KindName returns the localized operation noun for error phrasing.
func KindName(locale string, kind editor.Kind) string {
	if table, ok := kindNames[locale]; ok {
		if name, ok := table[kind]; ok {
			return name
		}
	}
	if name, ok := kindNames["en"][kind]; ok {
		return name
	}
	return string(kind)
}

// LocalizeEditError renders a typed editor error as a human-readable,
// display-ready string in the given locale. The four-way upstream distinction
// (blocked, stopped, no image with text, no image) is preserved per locale.
func LocalizeEditError(locale string, e *editor.Error) string {
	kind := KindName(locale, e.Kind)
	switch e.Code {
	case editor.CodeMissingCredential:
		return Message(locale, "error.missing_credential")
	case editor.CodeDecodeFailed:
		return Message(locale, "error.decode_failed")
	case editor.CodeRequestBlocked:
		msg := Message(locale, "error.request_blocked", kind, e.Reason)
		if e.Detail != "" {
			msg += " " + e.Detail
		}
		return msg
	case editor.CodeGenerationStopped:
		return Message(locale, "error.generation_stopped", kind, e.Reason)
	case editor.CodeNoImage:
		if e.Detail != "" {
			return Message(locale, "error.no_image_text", kind, e.Detail)
		}
		return Message(locale, "error.no_image", kind)
	default:
		return Message(locale, "error.upstream")
	}
}
