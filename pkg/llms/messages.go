package llms

import "strings"

// Role is the type of chat message.
type Role string

const (
	// RoleAI is a message sent by an AI.
	RoleAI Role = "ai"
	// RoleHuman is a message sent by a human.
	RoleHuman Role = "human"
	// RoleSystem is a message sent by the system.
	RoleSystem Role = "system"
)

// Message is a text message sent to a LLM.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

func HumanMessage(text string) Message {
	return Message{Role: RoleHuman, Content: text}
}

func AIMessage(text string) Message {
	return Message{Role: RoleAI, Content: text}
}

// MessageFromTextParts joins the parts with a new line.
func MessageFromTextParts(role Role, parts ...string) Message {
	return Message{Role: role, Content: strings.Join(parts, "\n")}
}

// ContentResponse is the response returned by a GenerateContent call.
type ContentResponse struct {
	Choices []*ContentChoice `json:"choices"`
	Usage   Usage            `json:"usage"`
}

// ContentChoice is one of the response choices returned by GenerateContent calls.
type ContentChoice struct {
	// Content is the textual content of a response
	Content string `json:"content"`
	// StopReason is the reason the model stopped generating output.
	StopReason string `json:"stop_reason,omitempty"`
}

// Usage is the token count reported by the provider.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
}
