package quiz

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"quizcraft/internal/export"
	"quizcraft/internal/generator"
	"quizcraft/internal/models"
)

type Handler struct {
	service  *Service
	exporter *export.Exporter
}

func NewHandler(service *Service, exporter *export.Exporter) *Handler {
	return &Handler{service: service, exporter: exporter}
}

func (h *Handler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var spec models.Spec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := spec.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Anonymous generation is allowed; a valid token attributes the
	// archived quiz to its creator.
	creatorID, _ := r.Context().Value("user_id").(uint)

	payload, err := h.service.GenerateQuiz(r.Context(), spec, creatorID)
	if err != nil {
		var moderation *generator.ModerationError
		if errors.As(err, &moderation) {
			log.Printf("Moderation rejected quiz spec (topic %q)", moderation.Topic)
			writeError(w, http.StatusInternalServerError, moderation.Error())
			return
		}
		logGenerationFailure(err)
		writeError(w, http.StatusInternalServerError, "Failed to generate quiz")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	quizID := vars["quizID"]

	payload, err := h.service.GetQuiz(quizID)
	if err != nil {
		if errors.Is(err, ErrQuizNotFound) {
			writeError(w, http.StatusNotFound, "Quiz not found")
			return
		}
		log.Printf("Error loading quiz %s: %v", quizID, err)
		writeError(w, http.StatusInternalServerError, "Failed to load quiz")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func (h *Handler) ExportQuiz(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	quizID := vars["quizID"]

	payload, err := h.service.GetQuiz(quizID)
	if err != nil {
		if errors.Is(err, ErrQuizNotFound) {
			writeError(w, http.StatusNotFound, "Quiz not found")
			return
		}
		log.Printf("Error loading quiz %s: %v", quizID, err)
		writeError(w, http.StatusInternalServerError, "Failed to load quiz")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(payload)+`"`)
	if err := h.exporter.Write(payload, w); err != nil {
		// Headers are out by now; all that is left is the log line.
		log.Printf("Error rendering PDF for quiz %s: %v", quizID, err)
	}
}

func (h *Handler) GetMyQuizzes(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	quizzes, err := h.service.GetQuizzesByCreator(userID)
	if err != nil {
		log.Printf("Error listing quizzes for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list quizzes")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(quizzes)
}

// logGenerationFailure annotates known provider error codes so an
// operator can tell quota problems from everything else. The client
// never sees these details.
func logGenerationFailure(err error) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "model_not_found"):
		log.Printf("Quiz generation failed (model not available): %v", err)
	case strings.Contains(msg, "rate_limit"):
		log.Printf("Quiz generation failed (rate limit): %v", err)
	case strings.Contains(msg, "insufficient_quota"):
		log.Printf("Quiz generation failed (quota exceeded): %v", err)
	default:
		log.Printf("Quiz generation failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
