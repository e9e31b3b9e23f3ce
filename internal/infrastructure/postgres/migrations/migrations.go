// Package migrations embarque les fichiers SQL appliqués par goose.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
