package migrations

import "embed"

// FS carries the migration files so goose can enumerate them regardless of
// the process working directory. The migrations themselves are registered
// Go functions; the embedded sources only provide the version listing.
//
//go:embed *.go
var FS embed.FS
