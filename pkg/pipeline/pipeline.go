// Package pipeline runs the template install stages in order: copy, alias
// rewrite, source-root layout, integrations, package manifest, install.
//
// Each stage finishes before the next begins. A failing stage aborts the run
// and leaves whatever was written so far; the run is not resumable.
package pipeline

import (
	"context"
	"strings"

	"github.com/5minds/create-processcube-app/pkg/alias"
	"github.com/5minds/create-processcube-app/pkg/bundles"
	"github.com/5minds/create-processcube-app/pkg/config"
	"github.com/5minds/create-processcube-app/pkg/copier"
	"github.com/5minds/create-processcube-app/pkg/errors"
	"github.com/5minds/create-processcube-app/pkg/filesystem"
	"github.com/5minds/create-processcube-app/pkg/installer"
	"github.com/5minds/create-processcube-app/pkg/layout"
	"github.com/5minds/create-processcube-app/pkg/logging"
	"github.com/5minds/create-processcube-app/pkg/manifest"
	"github.com/5minds/create-processcube-app/pkg/templates"
	"github.com/5minds/create-processcube-app/pkg/types"
	"github.com/5minds/create-processcube-app/pkg/verify"
)

// Options wires the collaborators of a run
type Options struct {
	FS        types.FS
	Store     *templates.Store
	// Config defaults to config.Load with the default locations
	Config    *config.Config
	Installer installer.Installer

	// SkipInstall runs every stage except the installer
	SkipInstall bool
	// Verify checks the written tree before installing
	Verify bool

	// OnInstall is called with the dependency list right before install
	OnInstall func(deps types.DependencySet)
}

// Result summarizes a completed run
type Result struct {
	Root         string
	Copied       []string
	Relocated    []string
	Integrations *bundles.MergeResult
	Manifest     string
	Dependencies types.DependencySet
	Installed    bool
}

// InstallTemplate validates req and materializes the project it describes
func InstallTemplate(ctx context.Context, req types.InstallRequest, opts Options) (*Result, error) {
	logger := logging.GetLogger("pipeline")
	done := logging.LogOperationStart(logger, "install-template")
	defer done()

	if opts.FS == nil {
		opts.FS = filesystem.NewOS()
	}
	if opts.Store == nil {
		opts.Store = templates.Embedded()
	}
	if opts.Config == nil {
		cfg, err := config.Load(config.LoadOptions{})
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load configuration")
		}
		opts.Config = cfg
	}
	if opts.Installer == nil && !opts.SkipInstall {
		opts.Installer = installer.New(nil, nil, nil)
	}
	cfg := opts.Config

	if err := Validate(opts.FS, opts.Store, req); err != nil {
		return nil, err
	}

	result := &Result{Root: req.TargetRoot}
	logger.Info().
		Str("root", req.TargetRoot).
		Str("template", string(req.Template)).
		Str("mode", string(req.Mode)).
		Bool("srcDir", req.UseSourceDir).
		Bool("authority", req.EnableAuthority).
		Bool("engine", req.EnableEngine).
		Msg("Installing template")

	// 1. Copy
	tree, err := opts.Store.Tree(req.Template, req.Mode)
	if err != nil {
		return nil, err
	}
	copied, err := copier.Copy(opts.FS, tree, req.TargetRoot, copier.Options{
		UseEslint:        req.UseEslint,
		UseTailwind:      req.UseTailwind,
		LintPatterns:     cfg.Copy.Lint,
		TailwindPatterns: cfg.Copy.Tailwind,
	})
	if err != nil {
		return nil, err
	}
	result.Copied = copied.Written

	// 2. Alias
	if _, err := alias.Rewrite(ctx, opts.FS, req.TargetRoot, alias.Options{
		Mode:         req.Mode,
		Alias:        req.Alias(),
		DefaultAlias: cfg.Alias.Default,
		UseSourceDir: req.UseSourceDir,
		SrcDir:       cfg.Layout.SrcDir,
		Concurrency:  cfg.Rewrite.Concurrency,
	}); err != nil {
		return nil, err
	}

	// 3. Layout
	if req.UseSourceDir {
		relocated, err := layout.Relocate(opts.FS, req.TargetRoot, layout.Options{
			Family:      req.Template,
			Mode:        req.Mode,
			UseTailwind: req.UseTailwind,
			SrcDir:      cfg.Layout.SrcDir,
			Relocate:    cfg.Layout.Relocate,
		})
		if err != nil {
			return nil, err
		}
		result.Relocated = relocated.Moved
	}

	// 4. Integrations
	merged, err := bundles.Apply(opts.FS, opts.Store, bundles.Context{
		Root:    req.TargetRoot,
		Request: req,
		Config:  cfg,
	})
	if err != nil {
		return nil, err
	}
	result.Integrations = merged

	// 5. Package manifest
	path, err := manifest.Write(opts.FS, req.TargetRoot, manifest.New(req.AppName, cfg))
	if err != nil {
		return nil, err
	}
	result.Manifest = path
	result.Dependencies = manifest.Dependencies(req, cfg)
	logger.Debug().Strs("dependencies", result.Dependencies.Names()).Msg("Dependencies resolved")

	if opts.Verify {
		violations, err := verify.New(opts.FS, opts.Store, cfg).Check(req)
		if err != nil {
			return nil, err
		}
		if len(violations) > 0 {
			messages := make([]string, len(violations))
			for i, v := range violations {
				messages[i] = v.String()
			}
			return result, errors.Newf(errors.ErrInternal, "generated project is inconsistent: %s", strings.Join(messages, "; ")).
				WithDetail("violations", messages)
		}
		logger.Debug().Msg("Project verified")
	}

	// 6. Install
	if opts.SkipInstall {
		logger.Info().Msg("Skipping dependency install")
		return result, nil
	}
	if opts.OnInstall != nil {
		opts.OnInstall(result.Dependencies)
	}
	if err := opts.Installer.Install(ctx, req.TargetRoot, result.Dependencies.Strings(), installer.Flags{
		PackageManager: req.PackageManager,
		Online:         req.NetworkAvailable,
	}); err != nil {
		return result, err
	}
	result.Installed = true

	return result, nil
}
