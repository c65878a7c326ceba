package editor

import (
	"fmt"
	"strings"
	"text/template"
)

// Kind selects which edit operation a request performs.
type Kind string

const (
	// KindRetouch is a localized edit focused on a hotspot.
	KindRetouch Kind = "retouch"
	// KindFilter applies a stylistic filter across the whole image.
	KindFilter Kind = "filter"
	// KindAdjust applies a global, photorealistic adjustment.
	KindAdjust Kind = "adjust"
)

// Hotspot is the pixel coordinate pair identifying the focal region of a
// retouch. Values are caller-validated against image bounds.
type Hotspot struct {
	X int
	Y int
}

// safetyPolicy is shared verbatim by every template. It permits standard tone
// adjustments while refusing identity-altering edits.
const safetyPolicy = `Safety & Ethics Policy:
- You may make subtle, photorealistic adjustments to skin tone or brightness (e.g., 'give me a tan', 'brighten the face'), as these are standard photo enhancements.
- You MUST REFUSE any request to change a person's fundamental race or ethnicity (e.g., 'make me look Asian', 'change this person to be white'). Do not perform these edits. If the request is ambiguous, err on the side of refusal and do not change the subject's identity.`

// outputConstraint tells the model to reply with image data only.
const outputConstraint = `Output: Return ONLY the final edited image. Do not return text.`

// Prompt templates are data, not control logic: one fixed template per
// operation kind with named substitution slots. The user instruction is
// embedded verbatim; it is natural language addressed to the model, not
// executable content, so no escaping is applied.
var promptTemplates = map[Kind]*template.Template{
	KindRetouch: template.Must(template.New(string(KindRetouch)).Parse(
		`You are an expert photo editor AI. Your task is to perform a natural, localized edit on the provided image based on the user's request.
User Request: "{{.Instruction}}"
Edit Location: Focus on the area around pixel coordinates (x: {{.X}}, y: {{.Y}}).

Editing Guidelines:
- The edit must be realistic and blend seamlessly with the surrounding area.
- The rest of the image (outside the immediate edit area) must remain identical to the original.

` + safetyPolicy + `

` + outputConstraint)),

	KindFilter: template.Must(template.New(string(KindFilter)).Parse(
		`You are an expert photo editor AI. Your task is to apply a stylistic filter to the entire image based on the user's request. Do not change the composition or content, only apply the style.
Filter Request: "{{.Instruction}}"

` + safetyPolicy + `

` + outputConstraint)),

	KindAdjust: template.Must(template.New(string(KindAdjust)).Parse(
		`You are an expert photo editor AI. Your task is to perform a natural, global adjustment to the entire image based on the user's request.
User Request: "{{.Instruction}}"

Editing Guidelines:
- The adjustment must be applied across the entire image.
- The result must be photorealistic.

` + safetyPolicy + `

` + outputConstraint)),
}

type promptData struct {
	Instruction string
	X           int
	Y           int
}

// BuildPrompt renders the instruction text sent alongside the image. The
// hotspot is consumed by KindRetouch only and ignored otherwise.
func BuildPrompt(kind Kind, instruction string, hotspot *Hotspot) (string, error) {
	tmpl, ok := promptTemplates[kind]
	if !ok {
		return "", fmt.Errorf("unknown edit kind %q", kind)
	}
	data := promptData{Instruction: instruction}
	if kind == KindRetouch {
		if hotspot == nil {
			return "", fmt.Errorf("retouch requires a hotspot")
		}
		data.X = hotspot.X
		data.Y = hotspot.Y
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", kind, err)
	}
	return b.String(), nil
}
