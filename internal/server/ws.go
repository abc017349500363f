package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"docqa/internal/llm"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type      string `json:"type"`       // "chat" or "ask"
	SessionID string `json:"session_id"` // empty starts a new session
	Content   string `json:"content"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type      string `json:"type"` // "response" or "error"
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
	Mode      string `json:"mode,omitempty"` // set for "ask" answers
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendWSError(conn, "", "invalid message format")
			continue
		}
		if req.Content == "" {
			s.sendWSError(conn, req.SessionID, "content is required")
			continue
		}

		switch req.Type {
		case "chat":
			s.handleWSChat(conn, r, req)
		case "ask":
			s.handleWSAsk(conn, r, req)
		default:
			s.sendWSError(conn, req.SessionID, "unknown message type: "+req.Type)
		}
	}
}

func (s *Server) handleWSChat(conn *websocket.Conn, r *http.Request, req wsRequest) {
	if s.provider == nil {
		s.sendWSError(conn, req.SessionID, "chat provider not configured")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	history := s.sessionHistory(sessionID)
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: chatSystemPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: req.Content})

	resp, err := s.provider.Complete(r.Context(), llm.CompletionRequest{
		Model:    s.model,
		Messages: messages,
	})
	if err != nil {
		s.sendWSError(conn, sessionID, "chat completion failed: "+err.Error())
		return
	}

	s.appendSession(sessionID,
		llm.Message{Role: llm.RoleUser, Content: req.Content},
		llm.Message{Role: llm.RoleAssistant, Content: resp.Content})

	s.sendWS(conn, wsResponse{
		Type:      "response",
		SessionID: sessionID,
		Content:   resp.Content,
	})
}

func (s *Server) handleWSAsk(conn *websocket.Conn, r *http.Request, req wsRequest) {
	if s.engine == nil {
		s.sendWSError(conn, req.SessionID, "answering engine not configured")
		return
	}

	outcome, err := s.engine.Answer(r.Context(), req.Content)
	if err != nil {
		s.sendWSError(conn, req.SessionID, "answering failed: "+err.Error())
		return
	}

	s.sendWS(conn, wsResponse{
		Type:      "response",
		SessionID: req.SessionID,
		Content:   outcome.Answer,
		Mode:      outcome.Mode,
	})
}

func (s *Server) sessionHistory(sessionID string) []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.sessions[sessionID]
	out := make([]llm.Message, len(history))
	copy(out, history)
	return out
}

func (s *Server) appendSession(sessionID string, msgs ...llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], msgs...)
}

func (s *Server) sendWS(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("server: websocket write: %v", err)
	}
}

func (s *Server) sendWSError(conn *websocket.Conn, sessionID, message string) {
	s.sendWS(conn, wsResponse{
		Type:      "error",
		SessionID: sessionID,
		Content:   message,
	})
}
