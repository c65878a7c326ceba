package editor

import (
	"retouchd/internal/genai"
)

// Interpret reduces a raw generateContent response to either a displayable
// data URI or a typed error. Checks run in strict order and the first match is
// terminal:
//
//  1. prompt-level block feedback — the request was rejected before any
//     generation, so it outranks everything else;
//  2. an inline-data part in the first candidate — success;
//  3. an abnormal finish reason — generation started but was cut short,
//     typically by safety filtering;
//  4. otherwise the model completed without an image; any trimmed text it
//     returned (usually a refusal or clarifying question) is carried in the
//     error detail.
//
// Interpret is pure: no logging, no network. The kind only labels the error
// for human-readable phrasing downstream.
func Interpret(resp *genai.GenerateContentResponse, kind Kind) (string, error) {
	if resp != nil && resp.Blocked() {
		return "", &Error{
			Code:   CodeRequestBlocked,
			Kind:   kind,
			Reason: resp.PromptFeedback.BlockReason,
			Detail: resp.PromptFeedback.BlockReasonMessage,
		}
	}

	var finishReason string
	if resp != nil && len(resp.Candidates) > 0 {
		first := resp.Candidates[0]
		finishReason = first.FinishReason
		if first.Content != nil {
			for _, part := range first.Content.Parts {
				if part.InlineData != nil && part.InlineData.Data != "" {
					return Payload{
						MimeType:   part.InlineData.MimeType,
						Base64Data: part.InlineData.Data,
					}.DataURI(), nil
				}
			}
		}
	}

	if finishReason != "" && finishReason != genai.FinishReasonStop {
		return "", &Error{Code: CodeGenerationStopped, Kind: kind, Reason: finishReason}
	}

	return "", &Error{Code: CodeNoImage, Kind: kind, Detail: resp.Text()}
}
