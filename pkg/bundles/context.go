package bundles

import (
	"path/filepath"

	"github.com/5minds/create-processcube-app/pkg/config"
	"github.com/5minds/create-processcube-app/pkg/types"
)

// Project file names shared by the integrations
const (
	EnvFile      = ".env"
	ManifestFile = "docker-compose.yml"
	Middleware   = "middleware.tsx"
	RouteFile    = "route.ts"
	UsersFile    = "users.json"
)

// authRoute is the auth callback segment below the router root
var authRoute = []string{"api", "auth", "[...nextauth]"}

// Context carries what an integration needs to place its files
type Context struct {
	Root    string
	Request types.InstallRequest
	Config  *config.Config
}

// RouteDir returns the directory the auth route is written to. It follows
// the final layout: root, then the source root if used, then app/ for the
// app-router family.
func (c Context) RouteDir() string {
	parts := []string{c.Root}
	if c.Request.UseSourceDir {
		parts = append(parts, c.Config.Layout.SrcDir)
	}
	if c.Request.Template.IsAppRouter() {
		parts = append(parts, "app")
	}
	return filepath.Join(append(parts, authRoute...)...)
}

// ToolDir joins elem onto the tool-specific config directory
func (c Context) ToolDir(elem ...string) string {
	return filepath.Join(append([]string{c.Root, c.Config.Bundles.ToolDir}, elem...)...)
}

// Path joins elem onto the project root
func (c Context) Path(elem ...string) string {
	return filepath.Join(append([]string{c.Root}, elem...)...)
}
