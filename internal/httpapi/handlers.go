package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"

	"github.com/benefitdesk/insurance-assistant/internal/agent"
	"github.com/benefitdesk/insurance-assistant/internal/llm"
	"github.com/benefitdesk/insurance-assistant/pkg/log"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
	UserID   string        `json:"user_id"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conversation, err := toConversation(req.Messages)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	requestID := uuid.NewString()
	logTurn(requestID, req.UserID, conversation)

	result, err := s.assistant.RunTurn(r.Context(), conversation)
	if err != nil {
		log.Error("Request %s: turn failed: %v", requestID, err)
		if errors.Is(err, agent.ErrModelUnavailable) {
			writeError(w, http.StatusInternalServerError, "language model unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	log.Info("Request %s: answered with %d tool call(s)", requestID, len(result.ToolCalls))
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	status := map[string]string{"status": "ok"}
	code := http.StatusOK

	if s.graphHealth != nil {
		if err := s.graphHealth(r.Context()); err != nil {
			status["graph"] = err.Error()
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	if s.vectorHealth != nil {
		if err := s.vectorHealth(r.Context()); err != nil {
			status["vector"] = err.Error()
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, code, status)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Healthcare Insurance Assistant API is running",
	})
}

// toConversation validates the wire messages and maps them onto the
// model message types.
func toConversation(messages []chatMessage) ([]llm.Message, error) {
	if len(messages) == 0 {
		return nil, errors.New("messages must not be empty")
	}

	conversation := make([]llm.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleUser, llm.RoleAssistant, llm.RoleSystem:
		default:
			return nil, errors.New("invalid message role: " + msg.Role)
		}
		if strings.TrimSpace(msg.Content) == "" {
			return nil, errors.New("message content must not be empty")
		}
		conversation = append(conversation, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	if conversation[len(conversation)-1].Role != llm.RoleUser {
		return nil, errors.New("last message must be from the user")
	}
	return conversation, nil
}

// logTurn records who is asking and, best effort, in which language.
func logTurn(requestID, userID string, conversation []llm.Message) {
	last := conversation[len(conversation)-1].Content
	info := whatlanggo.Detect(last)
	lang := "unknown"
	if info.IsReliable() {
		lang = info.Lang.Iso6391()
	}
	log.Info("Request %s: user=%s messages=%d lang=%s", requestID, userID, len(conversation), lang)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}
