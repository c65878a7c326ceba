package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"retouchd/internal/genai"
)

// Generator is the upstream contract the editor depends on. It is satisfied by
// *genai.Client.
type Generator interface {
	GenerateContent(ctx context.Context, apiKey string, parts []genai.Part) (*genai.GenerateContentResponse, error)
}

// Options configures an Editor.
type Options struct {
	Client Generator
	Logger *zerolog.Logger
	// LogResponses enables logging of upstream text (refusals, block
	// messages) alongside the always-on outcome metadata. Off by default so
	// user content stays out of production logs.
	LogResponses bool
}

// Editor runs the three edit operations. Each call is one atomic
// request/response exchange: credential check, prompt build, a single
// generateContent call, interpretation. Editors are stateless and safe for
// concurrent use.
type Editor struct {
	client       Generator
	logger       zerolog.Logger
	logResponses bool
}

// New constructs an Editor.
func New(opts Options) (*Editor, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("editor: client is required")
	}
	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Editor{client: opts.Client, logger: logger, logResponses: opts.LogResponses}, nil
}

// Retouch performs a localized edit focused on the hotspot coordinates.
func (e *Editor) Retouch(ctx context.Context, apiKey string, image Payload, instruction string, hotspot Hotspot) (string, error) {
	return e.apply(ctx, KindRetouch, apiKey, image, instruction, &hotspot)
}

// Filter applies a stylistic filter across the entire image.
func (e *Editor) Filter(ctx context.Context, apiKey string, image Payload, instruction string) (string, error) {
	return e.apply(ctx, KindFilter, apiKey, image, instruction, nil)
}

// Adjust applies a global adjustment across the entire image.
func (e *Editor) Adjust(ctx context.Context, apiKey string, image Payload, instruction string) (string, error) {
	return e.apply(ctx, KindAdjust, apiKey, image, instruction, nil)
}

func (e *Editor) apply(ctx context.Context, kind Kind, apiKey string, image Payload, instruction string, hotspot *Hotspot) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", &Error{Code: CodeMissingCredential, Kind: kind}
	}

	prompt, err := BuildPrompt(kind, instruction, hotspot)
	if err != nil {
		return "", err
	}

	parts := []genai.Part{
		genai.InlinePart(image.MimeType, image.Base64Data),
		genai.TextPart(prompt),
	}

	resp, err := e.client.GenerateContent(ctx, apiKey, parts)
	if err != nil {
		return "", fmt.Errorf("%s: %w", kind, err)
	}

	uri, err := Interpret(resp, kind)
	e.logOutcome(kind, resp, err)
	if err != nil {
		return "", err
	}
	return uri, nil
}

// logOutcome records interpretation metadata. Upstream text is included only
// when response logging is enabled; the image payload and API key never are.
func (e *Editor) logOutcome(kind Kind, resp *genai.GenerateContentResponse, err error) {
	event := e.logger.Debug().Str("kind", string(kind))
	if resp != nil {
		event = event.Int("candidates", len(resp.Candidates))
		if len(resp.Candidates) > 0 {
			event = event.Str("finish_reason", resp.Candidates[0].FinishReason)
		}
		if resp.Blocked() {
			event = event.Str("block_reason", resp.PromptFeedback.BlockReason)
		}
		if e.logResponses {
			event = event.Str("response_text", resp.Text())
		}
	}
	var typed *Error
	if errors.As(err, &typed) {
		event = event.Str("error_code", string(typed.Code))
	}
	event.Msg("editor: operation interpreted")
}
