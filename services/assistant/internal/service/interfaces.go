package service

import "context"

// ChatRequest - один запрос к chat completions: системная инструкция + сообщение пользователя
type ChatRequest struct {
	System string
	User   string
	// JSON включает response_format=json_object
	JSON        bool
	Temperature float64
}

// ChatCompleter - OpenAI-совместимый chat API (OpenAI или шлюз Lovable)
//
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=ChatCompleter --dir=. --output=./mocks --outpkg=mocks
type ChatCompleter interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// SpeechSynthesizer - синтез речи (ElevenLabs), возвращает MP3
//
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=SpeechSynthesizer --dir=. --output=./mocks --outpkg=mocks
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}
