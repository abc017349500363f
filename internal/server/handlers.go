package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"docqa/internal/llm"
	"docqa/internal/vision"
)

// chatSystemPrompt is the persona used for free-form chat.
const chatSystemPrompt = "You are a friendly AI assistant. Answer in Markdown with headings, bullets & emojis."

type askRequest struct {
	Query string `json:"query"`
}

type chatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type chatRequest struct {
	Message string     `json:"message"`
	History []chatTurn `json:"history,omitempty"`
}

type visionRequest struct {
	TextPrompt        string     `json:"text_prompt"`
	Base64Image       string     `json:"base64_image"`
	MIMEType          string     `json:"mime_type"`
	ChatHistory       []chatTurn `json:"chat_history,omitempty"`
	SystemInstruction string     `json:"system_instruction,omitempty"`
}

// handleAsk answers a question against the document index, reporting which
// branch produced the answer.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if s.engine == nil {
		writeError(w, http.StatusServiceUnavailable, "answering engine not configured")
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	outcome, err := s.engine.Answer(r.Context(), req.Query)
	if err != nil {
		log.Printf("server: answering failed: %v", err)
		writeError(w, http.StatusBadGateway, "answering failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// handleChat runs a free-form chat turn with replayed history.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.provider == nil {
		writeError(w, http.StatusServiceUnavailable, "chat provider not configured")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	messages := buildChatMessages(req.History, req.Message)
	resp, err := s.provider.Complete(r.Context(), llm.CompletionRequest{
		Model:    s.model,
		Messages: messages,
	})
	if err != nil {
		log.Printf("server: chat completion failed: %v", err)
		writeError(w, http.StatusBadGateway, "chat completion failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"reply": resp.Content})
}

// handleVision forwards an image question to the multimodal client. The
// reply is always 200 with a string: the vision layer embeds its failures
// in the text instead of raising them.
func (s *Server) handleVision(w http.ResponseWriter, r *http.Request) {
	if s.vision == nil {
		writeError(w, http.StatusServiceUnavailable, "vision client not configured")
		return
	}

	var req visionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	history := make([]vision.Turn, len(req.ChatHistory))
	for i, t := range req.ChatHistory {
		history[i] = vision.Turn{Role: t.Role, Text: t.Text}
	}

	reply := s.vision.Describe(r.Context(), vision.DescribeRequest{
		Prompt:            req.TextPrompt,
		ImageBase64:       req.Base64Image,
		MIMEType:          req.MIMEType,
		History:           history,
		SystemInstruction: req.SystemInstruction,
	})

	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// buildChatMessages replays history onto the chat persona and appends the
// new user message. Roles are binary: "user" stays the user, anything else
// is treated as the assistant.
func buildChatMessages(history []chatTurn, message string) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: chatSystemPrompt})

	for _, turn := range history {
		role := llm.RoleAssistant
		if turn.Role == "user" {
			role = llm.RoleUser
		}
		messages = append(messages, llm.Message{Role: role, Content: turn.Text})
	}

	return append(messages, llm.Message{Role: llm.RoleUser, Content: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
