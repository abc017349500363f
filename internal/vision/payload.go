package vision

// Turn is one prior exchange in the conversation, replayed to the model in
// chronological order.
type Turn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// defaultSystemInstruction is attached when the caller supplies none.
const defaultSystemInstruction = "You are a friendly AI assistant. Describe the uploaded image and answer the user's question clearly and helpfully."

// Gemini generateContent wire format, restricted to the fields this client
// sends and reads.
type payload struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// buildPayload assembles the multimodal request: prior turns in order, then
// a final user turn carrying the prompt text and the inline image. History
// roles are binary: "user" stays the user, anything else becomes "model".
// Pure construction, no I/O.
func buildPayload(prompt, imageBase64, mimeType string, history []Turn, systemInstruction string) payload {
	contents := make([]content, 0, len(history)+1)

	for _, turn := range history {
		role := "model"
		if turn.Role == "user" {
			role = "user"
		}
		contents = append(contents, content{
			Role:  role,
			Parts: []part{{Text: turn.Text}},
		})
	}

	contents = append(contents, content{
		Role: "user",
		Parts: []part{
			{Text: prompt},
			{InlineData: &inlineData{MIMEType: mimeType, Data: imageBase64}},
		},
	})

	if systemInstruction == "" {
		systemInstruction = defaultSystemInstruction
	}

	return payload{
		Contents:          contents,
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
	}
}
