// Package appfs embeds the static assets the app needs at runtime:
// database migrations and email templates.
package appfs

import (
	"embed"

	"github.com/kymanzi/ofisi/core"
)

//go:embed migrations all:assets
var FS embed.FS

func init() {
	core.EmailTemplatesFS = FS
}
