// Package imagedit builds multimodal image-edit requests, sends them
// through the payment-gated client, and interprets model responses.
package imagedit

import (
	"encoding/base64"
	"fmt"
)

const (
	// DefaultModel is the multimodal model used for image edits.
	DefaultModel = "google/gemini-2.5-flash-image-preview"

	defaultMaxTokens = 1000

	// maskedInstruction scopes an edit to the masked region. Applied
	// exactly once, at build time.
	maskedInstruction = `Apply the following instruction only to the masked area of the image: "%s". Preserve the unmasked area.`
)

// Image is raw image bytes plus their MIME type.
type Image struct {
	Data     []byte
	MimeType string
}

// DataURL renders the image as an inline data URL.
func (i Image) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MimeType, base64.StdEncoding.EncodeToString(i.Data))
}

// ContentPart is one element of a multimodal message: either text or
// an inline image.
type ContentPart struct {
	Type     string    `json:"type"` // "text" or "image_url"
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL wraps an image reference, inline or remote.
type ImageURL struct {
	URL string `json:"url"`
}

// Message is a single chat message.
type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// Request is the model invocation payload.
type Request struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
}

// BuildRequest assembles the edit payload. With a mask present the
// instruction is rewritten to scope the edit to the masked region and
// the mask attaches as a PNG after the primary image; a secondary
// image attaches last. Pure: no I/O, deterministic output.
func BuildRequest(model string, primary Image, instruction string, mask []byte, secondary *Image) Request {
	if model == "" {
		model = DefaultModel
	}

	text := instruction
	if mask != nil {
		text = fmt.Sprintf(maskedInstruction, instruction)
	}

	content := []ContentPart{
		{Type: "text", Text: text},
		{Type: "image_url", ImageURL: &ImageURL{URL: primary.DataURL()}},
	}

	if mask != nil {
		maskImage := Image{Data: mask, MimeType: "image/png"}
		content = append(content, ContentPart{
			Type:     "image_url",
			ImageURL: &ImageURL{URL: maskImage.DataURL()},
		})
	}

	if secondary != nil {
		content = append(content, ContentPart{
			Type:     "image_url",
			ImageURL: &ImageURL{URL: secondary.DataURL()},
		})
	}

	return Request{
		Model:     model,
		Messages:  []Message{{Role: "user", Content: content}},
		MaxTokens: defaultMaxTokens,
	}
}
