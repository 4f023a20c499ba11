package imagegen

// UpstreamConfig identifies the OpenAI-compatible endpoint a generation call
// is sent to.
type UpstreamConfig struct {
	BaseURL string
	APIKey  string
}

// TransformRequest carries one image transformation: the source image as
// base64, its MIME type (image/jpeg when unset) and the transformation
// instruction text.
type TransformRequest struct {
	ImageBase64 string
	MIMEType    string
	Instruction string
}

// Result is an output image recovered from the upstream response.
type Result struct {
	ImageBase64 string
	MIMEType    string
}

// ChatPayload is the wire-level chat-completion request. Request-scoped,
// never persisted.
type ChatPayload struct {
	Model    string        `json:"model"`
	Size     string        `json:"size"`
	Messages []ChatMessage `json:"messages"`
}

// ChatMessage is a single multimodal message.
type ChatMessage struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart is one ordered element of a multimodal message: either an
// image_url part or a text part.
type ContentPart struct {
	Type     string    `json:"type"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
	Text     string    `json:"text,omitempty"`
}

// ImageURL wraps a data URI or remote image reference.
type ImageURL struct {
	URL string `json:"url"`
}

// ChatResponse is the subset of the upstream completion body this service
// consumes.
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Content returns the first choice's message content, or "" when the
// response carries none.
func (r ChatResponse) Content() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}
