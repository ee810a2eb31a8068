package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mindhaven/mindhaven/internal/models"
	"github.com/mindhaven/mindhaven/internal/risk"
)

const chatSystemPrompt = "You are a supportive companion. Respond with " +
	"warmth and care, keep replies short, and never give medical advice."

// advanceRequest is the payload for advancing a session by one user turn.
type advanceRequest struct {
	Text string `json:"text"`
}

// chatRequest is the payload for the risk-evaluated chat path.
type chatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// chatResponse carries the generated reply. Escalation state is never
// surfaced here: a user must not see escalation outcomes in conversation.
type chatResponse struct {
	Response string `json:"response"`
}

// contactRequest is the payload for registering an emergency contact.
type contactRequest struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// toggleResponse reports an exercise's new completion flag.
type toggleResponse struct {
	ExerciseID string `json:"exercise_id"`
	Completed  bool   `json:"completed"`
}

func (s *Server) startSessionHandler(w http.ResponseWriter, r *http.Request) {
	session, err := s.manager.StartSession(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.Success(session))
}

func (s *Server) listSessionsHandler(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.manager.ListCompletedSessions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.Success(sessions))
}

func (s *Server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	session, err := s.manager.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.Success(session))
}

func (s *Server) advanceSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req advanceRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	result, err := s.manager.AdvanceSession(r.Context(), r.PathValue("id"), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.Success(result))
}

func (s *Server) getExercisesHandler(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.manager.GetGeneratedExercises(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if exercises == nil {
		exercises = []models.Exercise{}
	}
	writeJSON(w, http.StatusOK, models.Success(exercises))
}

func (s *Server) toggleExerciseHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	exerciseID := r.PathValue("exerciseID")

	completed, err := s.manager.ToggleExerciseCompletion(r.Context(), sessionID, exerciseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.Success(toggleResponse{ExerciseID: exerciseID, Completed: completed}))
}

// chatHandler generates a reply, classifies it for risk, and fires the
// escalation pipeline asynchronously when flagged. Turn-level generation
// failures are returned to the caller; escalation failures never are.
func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, models.Error("message is required"))
		return
	}

	reply, err := s.genaiClient.GeneratePrompt(r.Context(), chatSystemPrompt, req.Message)
	if err != nil {
		slog.Error("api.chatHandler: generation failed", "error", err)
		writeError(w, models.ErrGenerationFailed)
		return
	}

	if verdict := risk.Evaluate(reply); verdict.Flagged {
		slog.Warn("api.chatHandler: reply flagged, escalating", "userID", req.UserID)
		s.orchestrator.EscalateAsync(req.UserID, req.Message)
	}

	writeJSON(w, http.StatusOK, models.Success(chatResponse{Response: reply}))
}

func (s *Server) addContactHandler(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.UserID == "" || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, models.Error("user_id and email are required"))
		return
	}

	if err := s.contacts.AddEmergencyContact(req.UserID, req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.Success(map[string]string{"user_id": req.UserID, "email": req.Email}))
}
