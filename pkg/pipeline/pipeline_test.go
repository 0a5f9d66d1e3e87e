package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/5minds/create-processcube-app/pkg/config"
	"github.com/5minds/create-processcube-app/pkg/errors"
	"github.com/5minds/create-processcube-app/pkg/filesystem"
	"github.com/5minds/create-processcube-app/pkg/installer"
	"github.com/5minds/create-processcube-app/pkg/templates"
	"github.com/5minds/create-processcube-app/pkg/testutil"
	"github.com/5minds/create-processcube-app/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingInstaller struct {
	root  string
	deps  []string
	flags installer.Flags
	err   error
}

func (r *recordingInstaller) Install(_ context.Context, root string, deps []string, flags installer.Flags) error {
	r.root, r.deps, r.flags = root, deps, flags
	return r.err
}

func newRequest(t *testing.T) types.InstallRequest {
	return types.InstallRequest{
		AppName:        "my-app",
		TargetRoot:     filepath.Join(t.TempDir(), "my-app"),
		PackageManager: types.PackageManagerNPM,
		Template:       types.FamilyApp,
		Mode:           types.ModeTS,
		UseEslint:      true,
		UseTailwind:    true,
	}
}

func run(t *testing.T, req types.InstallRequest) (*Result, types.FS) {
	t.Helper()
	fs := filesystem.NewOS()
	result, err := InstallTemplate(context.Background(), req, Options{
		FS:          fs,
		SkipInstall: true,
		Verify:      true,
	})
	require.NoError(t, err)
	return result, fs
}

func fragment(t *testing.T, name templates.BundleName, file string) string {
	t.Helper()
	b, err := templates.Embedded().Bundle(name)
	require.NoError(t, err)
	data, err := b.File(file)
	require.NoError(t, err)
	return string(data)
}

func readJSON(t *testing.T, fs types.FS, path string) map[string]interface{} {
	t.Helper()
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(testutil.ReadFileT(t, fs, path)), &doc))
	return doc
}

// Every combination of source root, integrations, mode and family must pass
// the post-condition checks run by Verify.
func TestInstallTemplateCombinations(t *testing.T) {
	for _, family := range []types.TemplateFamily{types.FamilyApp, types.FamilyDefault} {
		for _, mode := range []types.LanguageMode{types.ModeTS, types.ModeJS} {
			for _, srcDir := range []bool{false, true} {
				for _, authority := range []bool{false, true} {
					for _, engine := range []bool{false, true} {
						name := fmt.Sprintf("%s-%s-src=%v-authority=%v-engine=%v", family, mode, srcDir, authority, engine)
						t.Run(name, func(t *testing.T) {
							req := newRequest(t)
							req.Template = family
							req.Mode = mode
							req.UseSourceDir = srcDir
							req.EnableAuthority = authority
							req.EnableEngine = engine

							result, fs := run(t, req)
							root := req.TargetRoot

							assert.True(t, testutil.Exists(fs, filepath.Join(root, "package.json")))
							assert.True(t, testutil.Exists(fs, filepath.Join(root, ".gitignore")))
							assert.True(t, testutil.Exists(fs, filepath.Join(root, "README.md")))
							assert.Equal(t, authority, testutil.Exists(fs, filepath.Join(root, "middleware.tsx")))
							assert.Equal(t, authority || engine, testutil.Exists(fs, filepath.Join(root, ".env")))
							assert.False(t, result.Installed)
						})
					}
				}
			}
		}
	}
}

func TestInstallTemplateEntryPageNested(t *testing.T) {
	tests := []struct {
		family types.TemplateFamily
		entry  string
		ref    string
	}{
		{types.FamilyApp, "src/app/page.tsx", "src/app/page"},
		{types.FamilyDefault, "src/pages/index.tsx", "src/pages/index"},
	}

	for _, tt := range tests {
		t.Run(string(tt.family), func(t *testing.T) {
			req := newRequest(t)
			req.Template = tt.family
			req.UseSourceDir = true

			_, fs := run(t, req)
			page := testutil.ReadFileT(t, fs, filepath.Join(req.TargetRoot, tt.entry))
			assert.Contains(t, page, tt.ref)
			assert.NotContains(t, strings.ReplaceAll(page, tt.ref, ""), strings.TrimPrefix(tt.ref, "src/"))

			tsconfig := testutil.ReadFileT(t, fs, filepath.Join(req.TargetRoot, "tsconfig.json"))
			assert.Contains(t, tsconfig, `"@/*": ["./src/*"]`)

			tw := testutil.ReadFileT(t, fs, filepath.Join(req.TargetRoot, "tailwind.config.js"))
			assert.NotContains(t, tw, "'./app/")
			assert.NotContains(t, tw, "'./pages/")
		})
	}
}

func TestInstallTemplateAuthorityOnly(t *testing.T) {
	req := newRequest(t)
	req.EnableAuthority = true

	_, fs := run(t, req)
	root := req.TargetRoot

	cfg := readJSON(t, fs, filepath.Join(root, ".processcube", "authority", "config.json"))
	assert.NotContains(t, cfg, "engines")
	assert.Contains(t, cfg, "clients")

	assert.Equal(t, fragment(t, templates.BundleAuthority, ".env"), testutil.ReadFileT(t, fs, filepath.Join(root, ".env")))
	assert.True(t, testutil.Exists(fs, filepath.Join(root, "app", "api", "auth", "[...nextauth]", "route.ts")))
	assert.True(t, testutil.Exists(fs, filepath.Join(root, ".processcube", "authority", "users.json")))
}

func TestInstallTemplateEngineOnly(t *testing.T) {
	req := newRequest(t)
	req.EnableEngine = true

	_, fs := run(t, req)
	root := req.TargetRoot

	cfg := readJSON(t, fs, filepath.Join(root, ".processcube", "engine", "config", "config.json"))
	assert.NotContains(t, cfg, "iam")

	assert.Equal(t, fragment(t, templates.BundleEngine, "docker-compose.yml"),
		testutil.ReadFileT(t, fs, filepath.Join(root, "docker-compose.yml")))
}

func TestInstallTemplateBothIntegrations(t *testing.T) {
	req := newRequest(t)
	req.EnableAuthority = true
	req.EnableEngine = true
	req.UseSourceDir = true

	_, fs := run(t, req)
	root := req.TargetRoot

	assert.Contains(t, readJSON(t, fs, filepath.Join(root, ".processcube", "authority", "config.json")), "engines")
	assert.Contains(t, readJSON(t, fs, filepath.Join(root, ".processcube", "engine", "config", "config.json")), "iam")

	env := testutil.ReadFileT(t, fs, filepath.Join(root, ".env"))
	assert.Contains(t, env, fragment(t, templates.BundleAuthority, ".env"))
	assert.Contains(t, env, fragment(t, templates.BundleEngine, ".env"))

	engineCompose := fragment(t, templates.BundleEngine, "docker-compose.yml")
	header := strings.Join(strings.SplitN(engineCompose, "\n", 3)[:2], "\n")

	compose := testutil.ReadFileT(t, fs, filepath.Join(root, "docker-compose.yml"))
	assert.True(t, strings.HasPrefix(compose, fragment(t, templates.BundleAuthority, "docker-compose.yml")))
	assert.Contains(t, compose, "  engine:")
	assert.NotContains(t, compose, header)
	assert.Equal(t, 1, strings.Count(compose, "services:"))

	assert.True(t, testutil.Exists(fs, filepath.Join(root, "src", "app", "api", "auth", "[...nextauth]", "route.ts")))
}

func TestInstallTemplateCustomAlias(t *testing.T) {
	req := newRequest(t)
	req.ImportAlias = "~/*"

	_, fs := run(t, req)
	root := req.TargetRoot

	tsconfig := testutil.ReadFileT(t, fs, filepath.Join(root, "tsconfig.json"))
	assert.Contains(t, tsconfig, `"~/*": ["./*"]`)
	assert.NotContains(t, tsconfig, `"@/*"`)

	for _, f := range testutil.ListFiles(t, fs, root) {
		if f == "tsconfig.json" {
			continue
		}
		assert.NotContains(t, testutil.ReadFileT(t, fs, filepath.Join(root, f)), "@/", f)
	}
	assert.Contains(t, testutil.ReadFileT(t, fs, filepath.Join(root, "app", "page.tsx")), "'~/app/greeting'")
}

// A repository initialized before the run is accepted as empty and its
// objects are not touched by the alias rewrite.
func TestInstallTemplateCustomAliasKeepsGitDir(t *testing.T) {
	req := newRequest(t)
	req.ImportAlias = "~/*"
	testutil.CreateFileTree(t, filesystem.NewOS(), req.TargetRoot, testutil.FileTree{
		".git": testutil.FileTree{
			"HEAD":    "ref: refs/heads/main\n",
			"objects": testutil.FileTree{"12": testutil.FileTree{"3456": "import '@/app/x'"}},
		},
	})

	_, fs := run(t, req)

	assert.Equal(t, "import '@/app/x'", testutil.ReadFileT(t, fs, filepath.Join(req.TargetRoot, ".git", "objects", "12", "3456")))
	assert.Contains(t, testutil.ReadFileT(t, fs, filepath.Join(req.TargetRoot, "app", "page.tsx")), "'~/app/greeting'")
}

func TestInstallTemplateInstalls(t *testing.T) {
	req := newRequest(t)
	req.Mode = types.ModeJS
	req.UseEslint = false
	req.UseTailwind = false
	req.PackageManager = types.PackageManagerYarn
	req.NetworkAvailable = true

	inst := &recordingInstaller{}
	var listed types.DependencySet

	result, err := InstallTemplate(context.Background(), req, Options{
		FS:        filesystem.NewOS(),
		Installer: inst,
		OnInstall: func(deps types.DependencySet) { listed = deps },
	})
	require.NoError(t, err)

	assert.True(t, result.Installed)
	assert.Equal(t, req.TargetRoot, inst.root)
	assert.Len(t, inst.deps, 4)
	assert.Equal(t, inst.deps, listed.Strings())
	assert.Equal(t, installer.Flags{PackageManager: types.PackageManagerYarn, Online: true}, inst.flags)
	assert.False(t, testutil.Exists(filesystem.NewOS(), filepath.Join(req.TargetRoot, ".eslintrc.json")))
}

func TestInstallTemplateFrameworkTestVersion(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.EnvFrameworkTestVersion, "13.4.0")

	req := newRequest(t)
	inst := &recordingInstaller{}

	result, err := InstallTemplate(context.Background(), req, Options{Installer: inst})
	require.NoError(t, err)

	assert.Equal(t, "next@13.4.0", result.Dependencies[2].String())
	assert.Contains(t, inst.deps, "next@13.4.0")
	assert.NotContains(t, inst.deps, "next")
}

func TestInstallTemplateBrokenUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	testutil.CreateFileTree(t, filesystem.NewOS(), home, testutil.FileTree{
		"create-processcube-app": testutil.FileTree{"config.toml": "[rewrite\n"},
	})

	req := newRequest(t)
	_, err := InstallTemplate(context.Background(), req, Options{SkipInstall: true})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad), "got %v", err)
	assert.False(t, testutil.Exists(filesystem.NewOS(), req.TargetRoot))
}

func TestInstallTemplateInstallFailure(t *testing.T) {
	req := newRequest(t)
	inst := &recordingInstaller{err: errors.New(errors.ErrInstallFailed, "boom")}

	result, err := InstallTemplate(context.Background(), req, Options{Installer: inst})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInstallFailed))
	assert.False(t, result.Installed)
}

func TestInstallTemplateRejectsBeforeWriting(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.InstallRequest)
		code   errors.ErrorCode
	}{
		{"bad name", func(r *types.InstallRequest) { r.AppName = "My App" }, errors.ErrInvalidInput},
		{"relative target", func(r *types.InstallRequest) { r.TargetRoot = "my-app" }, errors.ErrInvalidInput},
		{"bad alias", func(r *types.InstallRequest) { r.ImportAlias = "@*" }, errors.ErrInvalidInput},
		{"unknown family", func(r *types.InstallRequest) { r.Template = "nope" }, errors.ErrInvalidInput},
		{"unknown mode", func(r *types.InstallRequest) { r.Mode = "rb" }, errors.ErrInvalidInput},
		{"unknown package manager", func(r *types.InstallRequest) { r.PackageManager = "maven" }, errors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t)
			tt.mutate(&req)

			fs := testutil.NewTestFS()
			_, err := InstallTemplate(context.Background(), req, Options{FS: fs, SkipInstall: true})
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
			assert.False(t, testutil.Exists(fs, req.TargetRoot))
		})
	}
}

func TestInstallTemplateTargetNotEmpty(t *testing.T) {
	req := newRequest(t)
	fs := filesystem.NewOS()
	testutil.CreateFileTree(t, fs, req.TargetRoot, testutil.FileTree{
		".git":       testutil.FileTree{"HEAD": "ref"},
		"LICENSE":    "MIT",
		"index.html": "<html/>",
	})

	_, err := InstallTemplate(context.Background(), req, Options{FS: fs, SkipInstall: true})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTargetNotEmpty))
	assert.Equal(t, []string{"index.html"}, errors.GetErrorDetails(err)["conflicts"])
}
