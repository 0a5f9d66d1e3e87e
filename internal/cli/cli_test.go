package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/5minds/create-processcube-app/pkg/errors"
	"github.com/5minds/create-processcube-app/pkg/installer"
	"github.com/5minds/create-processcube-app/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and an isolated config and state
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, "state"))
	t.Setenv(installer.UserAgentEnv, "")

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", filepath.Join(home, "missing.toml")))
	err := cmd.Execute()
	return out.String(), err
}

func TestCreateDefaults(t *testing.T) {
	root := filepath.Join(t.TempDir(), "my-app")

	out, err := execute(t, root, "--skip-install", "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Creating a new ProcessCube app my-app in "+root)
	assert.Contains(t, out, "Success! Created my-app at "+root)
	assert.Contains(t, out, "npm install")

	for _, name := range []string{"package.json", "tsconfig.json", "app/page.tsx", ".gitignore"} {
		_, err := os.Stat(filepath.Join(root, name))
		assert.NoError(t, err, name)
	}
	_, err = os.Stat(filepath.Join(root, "tailwind.config.js"))
	assert.True(t, os.IsNotExist(err))
}

func TestCreatePagesInSourceDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "pages-app")

	_, err := execute(t, root, "--js", "--src-dir", "--template", "default",
		"--tailwind", "--skip-install", "--verify", "--format", "text")
	require.NoError(t, err)

	for _, name := range []string{"jsconfig.json", "src/pages/index.js", "tailwind.config.js"} {
		_, err := os.Stat(filepath.Join(root, name))
		assert.NoError(t, err, name)
	}
	_, err = os.Stat(filepath.Join(root, "pages"))
	assert.True(t, os.IsNotExist(err))
}

func TestCreateWithIntegrations(t *testing.T) {
	root := filepath.Join(t.TempDir(), "cube")

	_, err := execute(t, root, "--authority", "--engine", "--skip-install", "--verify", "--format", "text")
	require.NoError(t, err)

	env, err := os.ReadFile(filepath.Join(root, ".env"))
	require.NoError(t, err)
	assert.NotEmpty(t, env)

	_, err = os.Stat(filepath.Join(root, "docker-compose.yml"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "middleware.tsx"))
	assert.NoError(t, err)
}

func TestCreateRejectsNonEmptyTarget(t *testing.T) {
	root := filepath.Join(t.TempDir(), "taken")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "app"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "app", "page.tsx"), []byte("x"), 0644))

	_, err := execute(t, root, "--skip-install", "--format", "text")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTargetNotEmpty))
}

func TestCreateFlagConflicts(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "ts_and_js", args: []string{"--ts", "--js"}, want: MsgErrModeConflict},
		{name: "two_managers", args: []string{"--use-npm", "--use-yarn"}, want: MsgErrManagerConflict},
		{name: "bad_format", args: []string{"--format", "html"}, want: "unknown format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := filepath.Join(t.TempDir(), "app")
			_, err := execute(t, append([]string{root, "--skip-install"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)

			_, statErr := os.Stat(root)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestCreateRequiresDirectory(t *testing.T) {
	_, err := execute(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), MsgErrNoDirectory)
}

func TestRequest(t *testing.T) {
	t.Setenv(installer.UserAgentEnv, "pnpm/8.6.0 npm/? node/v20.0.0 linux x64")

	opts := createOptions{
		importAlias: "  ~/*  ",
		template:    "default",
		srcDir:      true,
		authority:   true,
	}
	req, err := opts.request(filepath.Join(t.TempDir(), "demo"))
	require.NoError(t, err)

	assert.Equal(t, "demo", req.AppName)
	assert.True(t, filepath.IsAbs(req.TargetRoot))
	assert.Equal(t, types.PackageManagerPNPM, req.PackageManager)
	assert.Equal(t, types.ModeTS, req.Mode)
	assert.Equal(t, types.FamilyDefault, req.Template)
	assert.Equal(t, "~/*", req.ImportAlias)
	assert.True(t, req.UseSourceDir)
	assert.True(t, req.EnableAuthority)
	assert.False(t, req.EnableEngine)

	opts.useBun = true
	req, err = opts.request("demo")
	require.NoError(t, err)
	assert.Equal(t, types.PackageManagerBun, req.PackageManager)
}

func TestConfigCommand(t *testing.T) {
	t.Setenv("PROCESSCUBE_REWRITE_CONCURRENCY", "3")

	out, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "tooldir")
	assert.Contains(t, out, "concurrency = 3")
}

func TestConfigCommandDefaults(t *testing.T) {
	out, err := execute(t, "config", "--defaults")
	require.NoError(t, err)
	assert.Contains(t, out, "# create-processcube-app defaults")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "create-processcube-app dev")
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "create-processcube-app")
}
