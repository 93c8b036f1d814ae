package chat

import (
	"fmt"

	"github.com/google/uuid"
)

// ChatSession tracks one authenticated connection. Message IDs are scoped to
// the session so the client can correlate stream frames.
type ChatSession struct {
	UserID    string
	SessionID string

	messageCount int
}

func NewChatSession(userID string) *ChatSession {
	return &ChatSession{
		UserID:    userID,
		SessionID: uuid.NewString(),
	}
}

// NextMessageID returns the next sequential message identifier.
func (s *ChatSession) NextMessageID() string {
	s.messageCount++
	return fmt.Sprintf("%s-%d", s.SessionID, s.messageCount)
}
