package model

import "time"

// Role is the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message represents a chat message in the conversation
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is an ordered conversation.
type Transcript []Message

// Clone returns a copy that shares no backing array with t.
func (t Transcript) Clone() Transcript {
	if t == nil {
		return nil
	}
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}

// Empty reports whether the transcript holds no messages.
func (t Transcript) Empty() bool {
	return len(t) == 0
}

// Presentation is how the host shows the area below the input bar.
type Presentation int

const (
	// PresentationResults is the default suggestion list.
	PresentationResults Presentation = iota
	// PresentationConversation shows the chat transcript.
	PresentationConversation
)

// PresentationFor returns the presentation a transcript implies.
func PresentationFor(t Transcript) Presentation {
	if t.Empty() {
		return PresentationResults
	}
	return PresentationConversation
}

func (p Presentation) String() string {
	if p == PresentationConversation {
		return "conversation"
	}
	return "results"
}
