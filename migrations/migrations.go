// Package migrations embeds the SQL schema for every storage backend.
//
//   - sqlite/ and postgres/ are applied by internal/migration to the local key-value store.
//   - remote/ is applied by goose to the shared document store used for sync.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql remote/*.sql
var FS embed.FS
