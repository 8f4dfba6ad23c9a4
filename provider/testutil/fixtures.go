package testutil

import (
	"time"

	"smartbar/model"
)

// TestMessages is a finished page conversation: question, answer, follow-up.
func TestMessages() []model.Message {
	now := time.Now()
	return []model.Message{
		{Role: model.RoleUser, Content: "What is this page about?", Timestamp: now},
		{Role: model.RoleAssistant, Content: "It compares flight prices to Boston.", Timestamp: now},
		{Role: model.RoleUser, Content: "Which one is cheapest?", Timestamp: now},
	}
}

func SingleUserMessage(content string) []model.Message {
	return []model.Message{{Role: model.RoleUser, Content: content, Timestamp: time.Now()}}
}
