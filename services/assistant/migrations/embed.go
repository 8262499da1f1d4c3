package migrations

import "embed"

// FS содержит SQL миграции Assistant Service (goose)
//
//go:embed *.sql
var FS embed.FS
