package editor

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
)

// Payload is the wire shape of a source image: a MIME type plus the base64
// body the upstream API expects in an inlineData part. It is derived once per
// request and discarded afterwards.
type Payload struct {
	MimeType   string
	Base64Data string
}

// mimePattern matches the type/subtype field of a data URI header.
var mimePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9!#$&^_.+-]*/[a-zA-Z0-9][a-zA-Z0-9!#$&^_.+-]*$`)

// NewPayload encodes raw image bytes, sniffing the MIME type from content.
func NewPayload(data []byte) Payload {
	return Payload{
		MimeType:   http.DetectContentType(data),
		Base64Data: base64.StdEncoding.EncodeToString(data),
	}
}

// ReadPayload consumes a reader (an uploaded file) into a Payload.
func ReadPayload(r io.Reader) (Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Payload{}, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return Payload{}, &Error{Code: CodeDecodeFailed, Detail: "empty image file"}
	}
	return NewPayload(data), nil
}

// ParseDataURI splits a data URI of the fixed two-part form
// data:<mime>;base64,<data>. A missing comma separator or an unmatchable MIME
// pattern indicates a malformed or unreadable source and fails with
// CodeDecodeFailed.
func ParseDataURI(uri string) (Payload, error) {
	header, body, found := strings.Cut(uri, ",")
	if !found {
		return Payload{}, &Error{Code: CodeDecodeFailed, Detail: "data URI has no comma separator"}
	}
	mime, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return Payload{}, &Error{Code: CodeDecodeFailed, Detail: "data URI is not base64-encoded"}
	}
	mime, ok = strings.CutPrefix(mime, "data:")
	if !ok || !mimePattern.MatchString(mime) {
		return Payload{}, &Error{Code: CodeDecodeFailed, Detail: fmt.Sprintf("unrecognized MIME type in data URI header %q", header)}
	}
	return Payload{MimeType: mime, Base64Data: body}, nil
}

// DataURI renders the payload back into a displayable data URI.
func (p Payload) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", p.MimeType, p.Base64Data)
}

// Bytes decodes the base64 body back to raw image bytes.
func (p Payload) Bytes() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(p.Base64Data)
	if err != nil {
		return nil, &Error{Code: CodeDecodeFailed, Detail: "invalid base64 body"}
	}
	return data, nil
}
