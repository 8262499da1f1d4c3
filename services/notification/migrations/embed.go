// Package migrations содержит goose миграции Notification Service
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
