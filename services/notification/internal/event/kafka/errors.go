package kafka

// ParseError - событие не удалось разобрать; такие сообщения сразу уходят в DLQ без retry
type ParseError struct {
	Field   string
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}
