package chat

import (
	"strings"
	"testing"
)

func TestNextMessageIDSequential(t *testing.T) {
	session := NewChatSession("user-1")
	first := session.NextMessageID()
	second := session.NextMessageID()

	if !strings.HasPrefix(first, session.SessionID+"-") {
		t.Errorf("expected session prefix, got %q", first)
	}
	if first != session.SessionID+"-1" {
		t.Errorf("expected first id to end in -1, got %q", first)
	}
	if second != session.SessionID+"-2" {
		t.Errorf("expected second id to end in -2, got %q", second)
	}
}

func TestSessionIDsUnique(t *testing.T) {
	a := NewChatSession("user-1")
	b := NewChatSession("user-1")
	if a.SessionID == b.SessionID {
		t.Error("expected distinct session IDs")
	}
}
