package genai

import "strings"

// Wire types for the generativelanguage generateContent REST surface. Only the
// fields this service reads or writes are modeled; everything else is ignored
// by the JSON decoder.

// Content groups the ordered parts of one message.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

// Part is either text or an inline binary blob.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries a base64 payload with its MIME type.
type InlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

// TextPart builds a text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// InlinePart builds an inline-data part.
func InlinePart(mimeType, data string) Part {
	return Part{InlineData: &InlineData{MimeType: mimeType, Data: data}}
}

type generateContentRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

// FinishReasonStop is the normal-completion finish reason.
const FinishReasonStop = "STOP"

// Candidate is one generated alternative.
type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// PromptFeedback reports a request rejected before any generation began.
type PromptFeedback struct {
	BlockReason        string `json:"blockReason,omitempty"`
	BlockReasonMessage string `json:"blockReasonMessage,omitempty"`
}

// GenerateContentResponse is the decoded generateContent reply.
type GenerateContentResponse struct {
	Candidates     []Candidate     `json:"candidates,omitempty"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
}

// Blocked reports whether the prompt was rejected outright.
func (r *GenerateContentResponse) Blocked() bool {
	return r != nil && r.PromptFeedback != nil && r.PromptFeedback.BlockReason != ""
}

// Text concatenates the trimmed text parts of the first candidate. It is
// typically the model's refusal explanation when no image is returned.
func (r *GenerateContentResponse) Text() string {
	if r == nil || len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		if t := strings.TrimSpace(part.Text); t != "" {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(t)
		}
	}
	return b.String()
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Status  string `json:"status,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}
