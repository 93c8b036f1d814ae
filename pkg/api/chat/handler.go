package chat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"cocktail_agent/pkg/core/agent"
)

// Runner is the generation engine as the chat layer sees it.
type Runner interface {
	Run(ctx context.Context, userInput string, userID string, topK int, ragEnabled bool) (*agent.RunResult, error)
}

// TokenVerifier authenticates access tokens into user IDs.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// CocktailCreator persists a generated recipe to the user's shelf.
type CocktailCreator interface {
	Create(ctx context.Context, userID string, recipe *agent.DrinkRecipe) (string, error)
}

// WebSocket close codes, mirroring RFC 6455.
const (
	codePolicyViolation = 1008
	codeInternalError   = 1011
)

// Handler upgrades chat connections and runs the per-connection loop.
// Messages within one connection are processed sequentially: a turn finishes
// streaming before the next incoming frame is read.
type Handler struct {
	engine    Runner
	verifier  TokenVerifier
	cocktails CocktailCreator

	topK       int
	ragEnabled bool

	upgrader websocket.Upgrader
}

func NewHandler(engine Runner, verifier TokenVerifier, cocktails CocktailCreator, topK int, ragEnabled bool) *Handler {
	return &Handler{
		engine:     engine,
		verifier:   verifier,
		cocktails:  cocktails,
		topK:       topK,
		ragEnabled: ragEnabled,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleWS is the WebSocket endpoint. Authentication happens via the token
// query parameter before any chat frame is accepted.
func (h *Handler) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[chat] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	token := r.URL.Query().Get("token")
	if token == "" {
		h.sendError(conn, "missing_token",
			"Authentication token is required. Connect with ?token=<access_token>",
			codePolicyViolation, false, "/login")
		h.closeWith(conn, codePolicyViolation)
		return
	}

	userID, err := h.verifier.VerifyToken(token)
	if err != nil {
		h.sendError(conn, "authentication_failed",
			"Invalid or expired authentication token",
			codePolicyViolation, false, "/login")
		h.closeWith(conn, codePolicyViolation)
		return
	}

	session := NewChatSession(userID)
	h.send(conn, ConnectionResponse{
		Type:      TypeConnected,
		UserID:    userID,
		SessionID: session.SessionID,
		Message:   "Connected to chatroom",
		Timestamp: nowTimestamp(),
	})
	log.Printf("[chat] user %s connected, session %s", userID, session.SessionID)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[chat] session %s disconnected: %v", session.SessionID, err)
			return
		}

		var msg IncomingMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.sendError(conn, "invalid_message_format",
				"Message must be a JSON object", 1003, true, "")
			continue
		}

		if !h.handleMessage(r.Context(), conn, session, &msg) {
			h.closeWith(conn, codePolicyViolation)
			return
		}
	}
}

// handleMessage processes one frame. Returns false when the connection must
// be terminated.
func (h *Handler) handleMessage(ctx context.Context, conn *websocket.Conn, session *ChatSession, msg *IncomingMessage) bool {
	// Mid-session re-authentication.
	if msg.Token != "" {
		userID, err := h.verifier.VerifyToken(msg.Token)
		if err != nil {
			h.sendError(conn, "authentication_expired",
				"Your session has expired. Please log in again.",
				codePolicyViolation, false, "/login")
			return false
		}
		if userID != session.UserID {
			h.sendError(conn, "authentication_mismatch",
				"User identity mismatch. Connection terminated.",
				codePolicyViolation, false, "/login")
			return false
		}
	}

	switch msg.Type {
	case TypeUser, "":
		h.processUserTurn(ctx, conn, session, msg.Content)
	case TypeTyping:
		// Ignored; there is no other participant to notify.
	default:
		log.Printf("[chat] unknown message type %q", msg.Type)
	}
	return true
}

// processUserTurn runs one engine turn and streams the result back as
// stream_start, stream_delta, stream_end.
func (h *Handler) processUserTurn(ctx context.Context, conn *websocket.Conn, session *ChatSession, content string) {
	messageID := session.NextMessageID()

	start := newOutgoing(TypeStreamStart, messageID)
	start.Metadata = map[string]interface{}{"user_id": session.UserID}
	h.send(conn, start)

	result, err := h.engine.Run(ctx, content, session.UserID, h.topK, h.ragEnabled)
	if err != nil {
		log.Printf("[chat] generation failed for session %s: %v", session.SessionID, err)
		h.streamReply(conn, messageID, apologyAction(), nil)
		return
	}

	metadata := h.buildMetadata(ctx, session.UserID, result.Completion)
	h.streamReply(conn, messageID, result.Completion, metadata)
}

// streamReply sends the reply text as one delta followed by the structured
// stream_end frame.
func (h *Handler) streamReply(conn *websocket.Conn, messageID string, action *agent.AgentAction, metadata map[string]interface{}) {
	delta := newOutgoing(TypeStreamDelta, messageID)
	delta.Delta = action.Conversation
	delta.Complete = boolPtr(false)
	h.send(conn, delta)

	end := newOutgoing(TypeStreamEnd, messageID)
	end.Content = action
	end.Complete = boolPtr(true)
	end.Metadata = metadata
	h.send(conn, end)
}

// buildMetadata persists a created drink and annotates the frame with the
// stored cocktail and the action type.
func (h *Handler) buildMetadata(ctx context.Context, userID string, action *agent.AgentAction) map[string]interface{} {
	if action == nil || action.ActionType == nil {
		return nil
	}

	metadata := map[string]interface{}{"action_type": string(*action.ActionType)}

	if *action.ActionType == agent.ActionCreateDrink && action.DrinkRecipe != nil && h.cocktails != nil {
		cocktailID, err := h.cocktails.Create(ctx, userID, action.DrinkRecipe)
		if err != nil {
			log.Printf("[chat] failed to persist cocktail for user %s: %v", userID, err)
		} else {
			metadata["created_cocktail"] = map[string]interface{}{
				"id":     cocktailID,
				"name":   action.DrinkRecipe.Name,
				"recipe": action.DrinkRecipe,
			}
		}
	}
	if *action.ActionType == agent.ActionSuggestDrink && action.SuggestDrink != nil {
		metadata["suggested_cocktails"] = []string{action.SuggestDrink.Name}
	}
	return metadata
}

// apologyAction is the fallback reply when generation fails outright.
func apologyAction() *agent.AgentAction {
	action := &agent.AgentAction{
		Confidence:   0,
		Reasoning:    "Generation failed; returning a fallback reply.",
		Conversation: "Sorry, I lost my train of thought behind the bar. Could you say that again?",
	}
	return action
}

func (h *Handler) send(conn *websocket.Conn, v interface{}) {
	if err := conn.WriteJSON(v); err != nil {
		log.Printf("[chat] write failed: %v", err)
	}
}

func (h *Handler) sendError(conn *websocket.Conn, errType string, detail string, code int, shouldReconnect bool, redirectTo string) {
	h.send(conn, newError(errType, detail, code, shouldReconnect, redirectTo))
}

func (h *Handler) closeWith(conn *websocket.Conn, code int) {
	payload := websocket.FormatCloseMessage(code, "")
	conn.WriteMessage(websocket.CloseMessage, payload)
}
