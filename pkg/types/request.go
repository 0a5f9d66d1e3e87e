package types

import (
	"fmt"
	"strings"
)

// LanguageMode selects the TypeScript or JavaScript flavour of a template
type LanguageMode string

const (
	ModeTS LanguageMode = "ts"
	ModeJS LanguageMode = "js"
)

// Valid reports whether m is a known language mode
func (m LanguageMode) Valid() bool {
	return m == ModeTS || m == ModeJS
}

// ResolutionConfig returns the module-resolution config file name for the mode
func (m LanguageMode) ResolutionConfig() string {
	if m == ModeJS {
		return "jsconfig.json"
	}
	return "tsconfig.json"
}

// PageExt returns the file extension used by page components in the mode
func (m LanguageMode) PageExt() string {
	if m == ModeTS {
		return "tsx"
	}
	return "js"
}

// TemplateFamily names a base project skeleton in the template store
type TemplateFamily string

const (
	// FamilyApp is the app-router skeleton
	FamilyApp TemplateFamily = "app"
	// FamilyDefault is the pages skeleton
	FamilyDefault TemplateFamily = "default"
)

// IsAppRouter reports whether the family lays out routes under app/
func (f TemplateFamily) IsAppRouter() bool {
	return strings.HasPrefix(string(f), "app")
}

// PackageManager identifies the tool that installs dependencies
type PackageManager string

const (
	PackageManagerNPM  PackageManager = "npm"
	PackageManagerPNPM PackageManager = "pnpm"
	PackageManagerYarn PackageManager = "yarn"
	PackageManagerBun  PackageManager = "bun"
)

// ParsePackageManager converts a name into a PackageManager
func ParsePackageManager(s string) (PackageManager, error) {
	switch pm := PackageManager(strings.ToLower(strings.TrimSpace(s))); pm {
	case PackageManagerNPM, PackageManagerPNPM, PackageManagerYarn, PackageManagerBun:
		return pm, nil
	default:
		return "", fmt.Errorf("unknown package manager: %s", s)
	}
}

// DefaultImportAlias is the alias every template ships with
const DefaultImportAlias = "@/*"

// InstallRequest holds every user choice for one run. It is not modified
// after validation.
type InstallRequest struct {
	AppName          string
	TargetRoot       string
	PackageManager   PackageManager
	NetworkAvailable bool

	Template TemplateFamily
	Mode     LanguageMode

	UseTailwind  bool
	UseEslint    bool
	UseSourceDir bool
	ImportAlias  string

	EnableAuthority bool
	EnableEngine    bool
}

// Alias returns the requested import alias, falling back to the default
func (r InstallRequest) Alias() string {
	if r.ImportAlias == "" {
		return DefaultImportAlias
	}
	return r.ImportAlias
}

// AliasPrefix strips the wildcard from an alias pattern ("@/*" -> "@/")
func AliasPrefix(alias string) string {
	return strings.ReplaceAll(alias, "*", "")
}
