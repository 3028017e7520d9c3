package webchat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/serenova-spa/recommend-platform/internal/catalog"
	"github.com/serenova-spa/recommend-platform/internal/llm"
	"github.com/serenova-spa/recommend-platform/pkg/logging"
)

// Generator produces an assistant reply for a chat turn. Implemented by
// llm.ModelChain.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (text, model string, err error)
}

const chatSystemPrompt = `Eres el asistente virtual de un spa de masajes. Responde en español,
de forma breve y amable. Recomienda únicamente servicios del catálogo del
spa cuando sea relevante, mencionándolos por su nombre exacto. No inventes
servicios ni precios.`

// historyLimit caps the per-session context sent to the model.
const historyLimit = 20

// Handler manages chat sessions: a websocket relay plus an HTTP mention
// detector. Every assistant reply is scanned for catalog service mentions
// so the widget can offer booking directly from the conversation.
type Handler struct {
	generator Generator
	catalog   catalog.Catalog
	logger    *logging.Logger

	mu       sync.RWMutex
	sessions map[string]*chatSession // sessionID -> active session
}

type chatSession struct {
	conn    *websocket.Conn
	history []llm.ChatMessage
}

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string            `json:"type"` // "session", "message", "typing", "pong", "error"
	Role      string            `json:"role,omitempty"`
	Text      string            `json:"text,omitempty"`
	SessionID string            `json:"session_id,omitempty"`
	Services  []BookableService `json:"services,omitempty"`
	Timestamp string            `json:"timestamp,omitempty"`
}

// NewHandler creates a chat handler.
func NewHandler(generator Generator, entries catalog.Catalog, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		generator: generator,
		catalog:   entries,
		logger:    logger,
		sessions:  make(map[string]*chatSession),
	}
}

func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// HandleWebSocket upgrades to WebSocket and relays chat turns.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = generateSessionID()
	}

	_ = websocket.JSON.Send(conn, OutboundMessage{
		Type:      "session",
		SessionID: sessionID,
	})

	sess := &chatSession{conn: conn}
	h.mu.Lock()
	h.sessions[sessionID] = sess
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		if h.sessions[sessionID] == sess {
			delete(h.sessions, sessionID)
		}
		h.mu.Unlock()
	}()

	h.logger.Info("webchat: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		}

		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		h.processTurn(r.Context(), sessionID, sess, msg.Text)
	}
}

// processTurn runs one user message through the model chain and pushes the
// reply, annotated with detected services, back over the socket.
func (h *Handler) processTurn(ctx context.Context, sessionID string, sess *chatSession, text string) {
	_ = websocket.JSON.Send(sess.conn, OutboundMessage{Type: "typing"})

	history := h.appendTurn(sess, llm.ChatMessage{Role: llm.ChatRoleUser, Content: text})

	reply, model, err := h.generator.Generate(ctx, llm.Request{
		System:   []string{chatSystemPrompt},
		Messages: history,
	})
	if err != nil {
		h.logger.Error("webchat: reply generation failed", "session_id", sessionID, "error", err)
		_ = websocket.JSON.Send(sess.conn, OutboundMessage{
			Type: "error",
			Text: "Lo sentimos, algo salió mal. Intenta de nuevo.",
		})
		return
	}

	h.appendTurn(sess, llm.ChatMessage{Role: llm.ChatRoleAssistant, Content: reply})

	services := Detect(reply, h.catalog)
	h.logger.Info("webchat: reply sent",
		"session_id", sessionID,
		"model", model,
		"detected_services", len(services),
	)

	_ = websocket.JSON.Send(sess.conn, OutboundMessage{
		Type:      "message",
		Role:      "assistant",
		Text:      reply,
		Services:  services,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// appendTurn records a message in the session history, trimming to the
// most recent turns, and returns a snapshot for the model call.
func (h *Handler) appendTurn(sess *chatSession, msg llm.ChatMessage) []llm.ChatMessage {
	h.mu.Lock()
	defer h.mu.Unlock()

	sess.history = append(sess.history, msg)
	if len(sess.history) > historyLimit {
		sess.history = sess.history[len(sess.history)-historyLimit:]
	}
	out := make([]llm.ChatMessage, len(sess.history))
	copy(out, sess.history)
	return out
}

type detectRequest struct {
	Text string `json:"text"`
}

type detectResponse struct {
	Services []BookableService `json:"services"`
}

// HandleDetect handles POST /chat/detect: catalog mention detection over
// arbitrary text, for callers that render chat through another channel.
func (h *Handler) HandleDetect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	services := Detect(req.Text, h.catalog)
	if services == nil {
		services = []BookableService{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(detectResponse{Services: services})
}
