// Package installer hands the dependency list of a generated project to a
// package manager.
package installer

import (
	"context"
	"io"
	"strings"

	"github.com/5minds/create-processcube-app/pkg/errors"
	"github.com/5minds/create-processcube-app/pkg/logging"
	"github.com/5minds/create-processcube-app/pkg/types"
)

// Flags are the installer options taken from the request
type Flags struct {
	PackageManager types.PackageManager
	Online         bool
}

// Installer installs dependencies into a project root
type Installer interface {
	Install(ctx context.Context, root string, deps []string, flags Flags) error
}

// Env is overlaid on the environment of every install
var Env = map[string]string{
	"ADBLOCK":                "1",
	"NODE_ENV":               "development",
	"DISABLE_OPENCOLLECTIVE": "1",
}

// Exec installs by running the package manager binary
type Exec struct {
	runner CommandRunner
	stdout io.Writer
	stderr io.Writer
}

// New creates an installer that runs commands through runner and mirrors
// their output to stdout and stderr.
func New(runner CommandRunner, stdout, stderr io.Writer) *Exec {
	if runner == nil {
		runner = NewExecRunner()
	}
	return &Exec{runner: runner, stdout: stdout, stderr: stderr}
}

// Args builds the package manager arguments for deps
func Args(flags Flags, root string, deps []string) []string {
	var args []string
	switch flags.PackageManager {
	case types.PackageManagerYarn:
		args = []string{"add", "--exact"}
		if !flags.Online {
			args = append(args, "--offline")
		}
		args = append(args, "--cwd", root)
	case types.PackageManagerPNPM:
		args = []string{"add", "--save-exact"}
	case types.PackageManagerBun:
		args = []string{"add", "--exact"}
	default:
		args = []string{"install", "--save-exact", "--save"}
	}
	return append(args, deps...)
}

// Install implements Installer
func (e *Exec) Install(ctx context.Context, root string, deps []string, flags Flags) error {
	logger := logging.GetLogger("installer")

	if len(deps) == 0 {
		return nil
	}

	pm := flags.PackageManager
	if pm == "" {
		pm = types.PackageManagerNPM
		flags.PackageManager = pm
	}
	args := Args(flags, root, deps)

	logger.Info().
		Str("command", string(pm)+" "+strings.Join(args, " ")).
		Str("root", root).
		Bool("online", flags.Online).
		Msg("Installing dependencies")

	result, err := e.runner.Run(ctx, string(pm), args, RunOpts{
		Dir:    root,
		Env:    Env,
		Stdout: e.stdout,
		Stderr: e.stderr,
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrInstallFailed, "failed to run %s", pm).
			WithDetail("packageManager", string(pm))
	}
	if result.ExitCode != 0 {
		return errors.Newf(errors.ErrInstallFailed, "%s %s exited with code %d", pm, strings.Join(args, " "), result.ExitCode).
			WithDetail("packageManager", string(pm)).
			WithDetail("exitCode", result.ExitCode)
	}
	return nil
}
