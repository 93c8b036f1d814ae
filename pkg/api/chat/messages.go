// Package chat exposes the conversational agent over a WebSocket endpoint.
package chat

import "time"

// MessageType enumerates the wire-level message kinds.
type MessageType string

const (
	TypeUser         MessageType = "user"
	TypeAssistant    MessageType = "assistant"
	TypeSystem       MessageType = "system"
	TypeError        MessageType = "error"
	TypeConnected    MessageType = "connected"
	TypeDisconnected MessageType = "disconnected"
	TypeTyping       MessageType = "typing"
	TypeStreamStart  MessageType = "stream_start"
	TypeStreamDelta  MessageType = "stream_delta"
	TypeStreamEnd    MessageType = "stream_end"
)

// IncomingMessage is a client-to-server frame. A token inside a message
// re-authenticates the session mid-connection.
type IncomingMessage struct {
	Type     MessageType            `json:"type"`
	Content  string                 `json:"content,omitempty"`
	Token    string                 `json:"token,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// OutgoingMessage is a server-to-client frame. Content carries the full
// structured reply on stream_end; Delta carries partial text on stream_delta.
type OutgoingMessage struct {
	Type      MessageType            `json:"type"`
	MessageID string                 `json:"message_id"`
	Content   interface{}            `json:"content,omitempty"`
	Delta     string                 `json:"delta,omitempty"`
	Complete  *bool                  `json:"complete,omitempty"`
	Timestamp string                 `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// ErrorMessage tells the client what failed and whether to reconnect.
type ErrorMessage struct {
	Type            MessageType `json:"type"`
	Error           string      `json:"error"`
	Detail          string      `json:"detail"`
	Code            int         `json:"code"`
	Timestamp       string      `json:"timestamp"`
	ShouldReconnect bool        `json:"should_reconnect"`
	RedirectTo      string      `json:"redirect_to,omitempty"`
}

// ConnectionResponse confirms a successful handshake.
type ConnectionResponse struct {
	Type      MessageType `json:"type"`
	UserID    string      `json:"user_id"`
	SessionID string      `json:"session_id"`
	Message   string      `json:"message"`
	Timestamp string      `json:"timestamp"`
}

func nowTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func newOutgoing(msgType MessageType, messageID string) OutgoingMessage {
	return OutgoingMessage{
		Type:      msgType,
		MessageID: messageID,
		Timestamp: nowTimestamp(),
	}
}

func newError(errType string, detail string, code int, shouldReconnect bool, redirectTo string) ErrorMessage {
	return ErrorMessage{
		Type:            TypeError,
		Error:           errType,
		Detail:          detail,
		Code:            code,
		Timestamp:       nowTimestamp(),
		ShouldReconnect: shouldReconnect,
		RedirectTo:      redirectTo,
	}
}

func boolPtr(b bool) *bool { return &b }
