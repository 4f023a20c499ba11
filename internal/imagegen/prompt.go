package imagegen

import "fmt"

// systemInstruction constrains the model to a pure style transfer: same
// composition, no added text or objects, exactly one output image.
const systemInstruction = `You are an image transformation engine. You MUST output ONLY a transformed image.
CRITICAL RULES:
- Keep the EXACT same composition, perspective, camera angle, and spatial arrangement as the input image.
- Transform the STYLE and APPEARANCE only, never the layout or structure.
- Do NOT add text, watermarks, or extra objects.
- Output a single high-quality image.`

const outputSize = "1024x1024"

// BuildPayload composes the chat-completion request for a transformation.
// The source image travels as an inline data URI content part, followed by a
// text part combining the system instruction and the caller's instruction.
// Pure and deterministic: identical inputs yield identical payloads.
func BuildPayload(req TransformRequest, model string) ChatPayload {
	mime := req.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}

	return ChatPayload{
		Model: model,
		Size:  outputSize,
		Messages: []ChatMessage{
			{
				Role: "user",
				Content: []ContentPart{
					{
						Type:     "image_url",
						ImageURL: &ImageURL{URL: fmt.Sprintf("data:%s;base64,%s", mime, req.ImageBase64)},
					},
					{
						Type: "text",
						Text: systemInstruction + "\n\nTransformation instruction: " + req.Instruction,
					},
				},
			},
		},
	}
}
