package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/apperrors"
	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/metrics"
	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/observability"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/assistant/internal/repository"
)

// maxSpeechChars - ограничение ElevenLabs на длину текста за один запрос
const maxSpeechChars = 5000

// CreditsWarning - текст предупреждения, когда AI результат отдан, а кредиты не списаны
const CreditsWarning = "credits not deducted"

// Caller - аутентифицированный пользователь запроса
type Caller struct {
	UserID string
}

// CreditCosts - стоимость действий в кредитах. 0 отключает списание
type CreditCosts struct {
	Suggestion  int
	Translation int
	Speech      int
	Enhancement int
}

// DefaultCreditCosts возвращает стоимость по умолчанию
func DefaultCreditCosts() CreditCosts {
	return CreditCosts{Suggestion: 1, Translation: 1, Speech: 2, Enhancement: 1}
}

// AssistantService - обёртки над внешними AI API со списанием кредитов
type AssistantService struct {
	chat         ChatCompleter
	speech       SpeechSynthesizer
	credits      repository.CreditRepository
	costs        CreditCosts
	defaultVoice string
	logger       *zap.Logger
}

// NewAssistantService создаёт сервис; defaultVoiceID используется, когда клиент голос не передал
func NewAssistantService(
	chat ChatCompleter,
	speech SpeechSynthesizer,
	credits repository.CreditRepository,
	costs CreditCosts,
	defaultVoiceID string,
	logger *zap.Logger,
) *AssistantService {
	return &AssistantService{
		chat:         chat,
		speech:       speech,
		credits:      credits,
		costs:        costs,
		defaultVoice: defaultVoiceID,
		logger:       logger,
	}
}

// SuggestionInput - поле формы и контекст, для которых нужны подсказки
type SuggestionInput struct {
	Field    string
	Context  string
	Language string
}

// SuggestionResult - разобранный JSON от модели
type SuggestionResult struct {
	Suggestion     map[string]any
	CreditsWarning string
}

// Suggest запрашивает подсказки для поля формы; ответ модели должен быть JSON объектом
func (s *AssistantService) Suggest(ctx context.Context, caller Caller, input SuggestionInput) (SuggestionResult, error) {
	if err := requireCaller(caller); err != nil {
		return SuggestionResult{}, err
	}
	if strings.TrimSpace(input.Field) == "" {
		return SuggestionResult{}, apperrors.Required("field")
	}
	if strings.TrimSpace(input.Context) == "" {
		return SuggestionResult{}, apperrors.Required("context")
	}
	language := input.Language
	if language == "" {
		language = "fr"
	}

	content, err := s.chat.Complete(ctx, ChatRequest{
		System:      suggestionSystemPrompt,
		User:        suggestionUserPrompt(input.Field, input.Context, LanguageName(language)),
		JSON:        true,
		Temperature: 0.7,
	})
	if err != nil {
		return SuggestionResult{}, fmt.Errorf("suggestion: %w", err)
	}

	suggestion, err := parseJSONObject(content)
	if err != nil {
		return SuggestionResult{}, &apperrors.UpstreamError{
			Service:    "ai",
			Status:     http.StatusOK,
			StatusText: "unparsable suggestion",
			Err:        err,
		}
	}

	result := SuggestionResult{Suggestion: suggestion}
	result.CreditsWarning = s.deduct(ctx, caller, s.costs.Suggestion, repository.ActionSuggestion,
		"Suggestion IA: "+input.Field)
	return result, nil
}

// TranslationInput - текст и коды языков
type TranslationInput struct {
	Text           string
	TargetLanguage string
	SourceLanguage string
}

// TranslationResult - переведённый текст
type TranslationResult struct {
	TranslatedText string
	CreditsWarning string
}

// Translate переводит текст; неизвестный код языка передаётся модели как есть
func (s *AssistantService) Translate(ctx context.Context, caller Caller, input TranslationInput) (TranslationResult, error) {
	if err := requireCaller(caller); err != nil {
		return TranslationResult{}, err
	}
	if strings.TrimSpace(input.Text) == "" {
		return TranslationResult{}, apperrors.Required("text")
	}
	if strings.TrimSpace(input.TargetLanguage) == "" {
		return TranslationResult{}, apperrors.Required("targetLanguage")
	}

	target := LanguageName(input.TargetLanguage)
	source := ""
	if input.SourceLanguage != "" {
		source = LanguageName(input.SourceLanguage)
	}

	content, err := s.chat.Complete(ctx, ChatRequest{
		System:      translationSystemPrompt(source, target),
		User:        input.Text,
		Temperature: 0.3,
	})
	if err != nil {
		return TranslationResult{}, fmt.Errorf("translation: %w", err)
	}

	result := TranslationResult{TranslatedText: strings.TrimSpace(content)}
	result.CreditsWarning = s.deduct(ctx, caller, s.costs.Translation, repository.ActionTranslation,
		"Traduction vers "+target)
	return result, nil
}

// SpeechInput - текст для озвучки и необязательный голос
type SpeechInput struct {
	Text    string
	VoiceID string
}

// SpeechResult - MP3 в base64
type SpeechResult struct {
	AudioContent   string
	CreditsWarning string
}

// Speak синтезирует речь через ElevenLabs
func (s *AssistantService) Speak(ctx context.Context, caller Caller, input SpeechInput) (SpeechResult, error) {
	if err := requireCaller(caller); err != nil {
		return SpeechResult{}, err
	}
	if strings.TrimSpace(input.Text) == "" {
		return SpeechResult{}, apperrors.Required("text")
	}
	if n := utf8.RuneCountInString(input.Text); n > maxSpeechChars {
		return SpeechResult{}, apperrors.Invalid("text", fmt.Sprintf("text is too long: %d characters (max %d)", n, maxSpeechChars))
	}
	voice := input.VoiceID
	if voice == "" {
		voice = s.defaultVoice
	}

	audio, err := s.speech.Synthesize(ctx, input.Text, voice)
	if err != nil {
		return SpeechResult{}, fmt.Errorf("speech: %w", err)
	}

	result := SpeechResult{AudioContent: base64.StdEncoding.EncodeToString(audio)}
	result.CreditsWarning = s.deduct(ctx, caller, s.costs.Speech, repository.ActionSpeech,
		fmt.Sprintf("Synthèse vocale (%d caractères)", utf8.RuneCountInString(input.Text)))
	return result, nil
}

// EnhanceInput - текст и вид улучшения (summary, motivation, experience, generic)
type EnhanceInput struct {
	Text string
	Kind string
}

// EnhanceResult - улучшенный текст
type EnhanceResult struct {
	EnhancedText   string
	CreditsWarning string
}

// Enhance улучшает текст по шаблону для вида; пустой вид = generic
func (s *AssistantService) Enhance(ctx context.Context, caller Caller, input EnhanceInput) (EnhanceResult, error) {
	if err := requireCaller(caller); err != nil {
		return EnhanceResult{}, err
	}
	if strings.TrimSpace(input.Text) == "" {
		return EnhanceResult{}, apperrors.Required("text")
	}
	kind := input.Kind
	if kind == "" {
		kind = EnhanceGeneric
	}
	if _, ok := enhancePrompts[kind]; !ok {
		return EnhanceResult{}, apperrors.Invalid("kind", fmt.Sprintf("unknown kind %q", input.Kind))
	}

	content, err := s.chat.Complete(ctx, ChatRequest{
		System:      enhanceSystemPrompt(kind),
		User:        input.Text,
		Temperature: 0.5,
	})
	if err != nil {
		return EnhanceResult{}, fmt.Errorf("enhancement: %w", err)
	}

	result := EnhanceResult{EnhancedText: strings.TrimSpace(content)}
	result.CreditsWarning = s.deduct(ctx, caller, s.costs.Enhancement, repository.ActionEnhancement,
		"Amélioration IA: "+kind)
	return result, nil
}

// Balance возвращает баланс кредитов пользователя
func (s *AssistantService) Balance(ctx context.Context, caller Caller) (int, error) {
	if err := requireCaller(caller); err != nil {
		return 0, err
	}
	balance, err := s.credits.Balance(ctx, caller.UserID)
	if err != nil {
		return 0, fmt.Errorf("credit balance: %w", err)
	}
	return balance, nil
}

// deduct списывает кредиты после успешного вызова.
// Ошибка не возвращается: AI результат уже получен, наружу уходит только предупреждение.
func (s *AssistantService) deduct(ctx context.Context, caller Caller, credits int, action, description string) string {
	if credits <= 0 {
		return ""
	}

	err := s.credits.Deduct(ctx, repository.CreditDeduction{
		UserID:      caller.UserID,
		Credits:     credits,
		ActionType:  action,
		Description: description,
	})
	if err != nil {
		metrics.RecordCreditDeduction(action, "failed")
		observability.L(ctx, s.logger).Error("credit deduction failed",
			zap.String("user_id", caller.UserID),
			zap.String("action", action),
			zap.Int("credits", credits),
			zap.Error(err),
		)
		return CreditsWarning
	}

	metrics.RecordCreditDeduction(action, "ok")
	return ""
}

func requireCaller(caller Caller) error {
	if caller.UserID == "" {
		return apperrors.Required("user_id")
	}
	return nil
}

// parseJSONObject разбирает ответ модели, допускает обёртку в ```json ... ```
func parseJSONObject(text string) (map[string]any, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		if idx := strings.Index(cleaned, "\n"); idx >= 0 {
			cleaned = cleaned[idx+1:]
		}
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
		return nil, fmt.Errorf("parse suggestion JSON: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("suggestion is not a JSON object")
	}
	return obj, nil
}
