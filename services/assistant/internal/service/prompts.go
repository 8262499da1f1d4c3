package service

import "fmt"

// Виды улучшения текста
const (
	EnhanceSummary    = "summary"
	EnhanceMotivation = "motivation"
	EnhanceExperience = "experience"
	EnhanceGeneric    = "generic"
)

const suggestionSystemPrompt = `Tu es un assistant qui aide à remplir des formulaires (CV, lettres de motivation, rapports, dossiers de voyage).
Réponds uniquement avec un objet JSON valide, sans texte autour.
L'objet doit contenir la clé "suggestions" (liste de 3 propositions courtes) et la clé "tips" (liste de conseils).`

var enhancePrompts = map[string]string{
	EnhanceSummary:    "Réécris ce résumé de profil pour un CV: clair, professionnel, 3 à 4 phrases maximum.",
	EnhanceMotivation: "Améliore cette lettre de motivation: ton professionnel et convaincant, garde les faits du texte.",
	EnhanceExperience: "Reformule cette description d'expérience professionnelle avec des verbes d'action et des résultats concrets.",
	EnhanceGeneric:    "Améliore ce texte: corrige l'orthographe et la grammaire, rends-le plus clair sans changer le sens.",
}

func suggestionUserPrompt(field, context, language string) string {
	return fmt.Sprintf("Champ: %s\nContexte: %s\nLangue de réponse: %s", field, context, language)
}

func translationSystemPrompt(source, target string) string {
	if source == "" {
		return fmt.Sprintf("You are a professional translator. Translate the user's text into %s. "+
			"Return only the translation, without quotes or explanations.", target)
	}
	return fmt.Sprintf("You are a professional translator. Translate the user's text from %s into %s. "+
		"Return only the translation, without quotes or explanations.", source, target)
}

func enhanceSystemPrompt(kind string) string {
	return enhancePrompts[kind] + " Réponds uniquement avec le texte amélioré."
}
