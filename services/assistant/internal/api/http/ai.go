package httpapi

import (
	"net/http"

	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/apperrors"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/assistant/internal/service"
)

// SuggestionRequest - тело POST /ai/suggestions
type SuggestionRequest struct {
	Field    string `json:"field"`
	Context  string `json:"context"`
	Language string `json:"language,omitempty"`
}

// SuggestionResponse - ответ с разобранным JSON модели
type SuggestionResponse struct {
	Suggestion     map[string]any `json:"suggestion"`
	CreditsWarning string         `json:"credits_warning,omitempty"`
}

// TranslationRequest - тело POST /ai/translate
type TranslationRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage"`
	SourceLanguage string `json:"sourceLanguage,omitempty"`
}

// TranslationResponse - переведённый текст
type TranslationResponse struct {
	TranslatedText string `json:"translatedText"`
	CreditsWarning string `json:"credits_warning,omitempty"`
}

// SpeechRequest - тело POST /ai/speech
type SpeechRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voiceId,omitempty"`
}

// SpeechResponse - MP3 в base64
type SpeechResponse struct {
	AudioContent   string `json:"audioContent"`
	CreditsWarning string `json:"credits_warning,omitempty"`
}

// EnhanceRequest - тело POST /ai/enhance
type EnhanceRequest struct {
	Text string `json:"text"`
	Kind string `json:"kind"`
}

// EnhanceResponse - улучшенный текст
type EnhanceResponse struct {
	EnhancedText   string `json:"enhancedText"`
	CreditsWarning string `json:"credits_warning,omitempty"`
}

// CreditsResponse - ответ GET /credits
type CreditsResponse struct {
	Balance int `json:"balance"`
}

// PostSuggestions обрабатывает POST /ai/suggestions
func (h *Handler) PostSuggestions(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req SuggestionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.assistant.Suggest(r.Context(), caller, service.SuggestionInput{
		Field:    req.Field,
		Context:  req.Context,
		Language: req.Language,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	apperrors.WriteJSON(w, http.StatusOK, SuggestionResponse{
		Suggestion:     res.Suggestion,
		CreditsWarning: res.CreditsWarning,
	})
}

// PostTranslate обрабатывает POST /ai/translate
func (h *Handler) PostTranslate(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req TranslationRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.assistant.Translate(r.Context(), caller, service.TranslationInput{
		Text:           req.Text,
		TargetLanguage: req.TargetLanguage,
		SourceLanguage: req.SourceLanguage,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	apperrors.WriteJSON(w, http.StatusOK, TranslationResponse{
		TranslatedText: res.TranslatedText,
		CreditsWarning: res.CreditsWarning,
	})
}

// PostSpeech обрабатывает POST /ai/speech
func (h *Handler) PostSpeech(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req SpeechRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.assistant.Speak(r.Context(), caller, service.SpeechInput{Text: req.Text, VoiceID: req.VoiceID})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	apperrors.WriteJSON(w, http.StatusOK, SpeechResponse{
		AudioContent:   res.AudioContent,
		CreditsWarning: res.CreditsWarning,
	})
}

// PostEnhance обрабатывает POST /ai/enhance
func (h *Handler) PostEnhance(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req EnhanceRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.assistant.Enhance(r.Context(), caller, service.EnhanceInput{Text: req.Text, Kind: req.Kind})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	apperrors.WriteJSON(w, http.StatusOK, EnhanceResponse{
		EnhancedText:   res.EnhancedText,
		CreditsWarning: res.CreditsWarning,
	})
}

// GetCredits обрабатывает GET /credits
func (h *Handler) GetCredits(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	balance, err := h.assistant.Balance(r.Context(), caller)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	apperrors.WriteJSON(w, http.StatusOK, CreditsResponse{Balance: balance})
}
