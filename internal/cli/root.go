package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/5minds/create-processcube-app/internal/version"
	"github.com/5minds/create-processcube-app/pkg/config"
	"github.com/5minds/create-processcube-app/pkg/installer"
	"github.com/5minds/create-processcube-app/pkg/logging"
	"github.com/5minds/create-processcube-app/pkg/pipeline"
	"github.com/5minds/create-processcube-app/pkg/types"
	"github.com/5minds/create-processcube-app/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// onlineProbeTimeout bounds the registry lookup done for yarn
const onlineProbeTimeout = 3 * time.Second

type createOptions struct {
	ts, js      bool
	tailwind    bool
	eslint      bool
	srcDir      bool
	importAlias string
	authority   bool
	engine      bool
	template    string

	useNPM, usePNPM, useYarn, useBun bool

	offline     bool
	skipInstall bool
	verify      bool
	format      string
	configPath  string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	var (
		verbosity int
		opts      createOptions
	)

	rootCmd := &cobra.Command{
		Use:     "create-processcube-app <project-directory>",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return fmt.Errorf("%s", MsgErrNoDirectory)
			}
			return runCreate(cmd, args[0], opts)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a config file (default "+config.UserConfigPath()+")")

	flags := rootCmd.Flags()
	flags.BoolVar(&opts.ts, "ts", false, MsgFlagTS)
	flags.BoolVar(&opts.ts, "typescript", false, MsgFlagTS)
	flags.BoolVar(&opts.js, "js", false, MsgFlagJS)
	flags.BoolVar(&opts.js, "javascript", false, MsgFlagJS)
	flags.BoolVar(&opts.tailwind, "tailwind", false, MsgFlagTailwind)
	flags.BoolVar(&opts.eslint, "eslint", false, MsgFlagEslint)
	flags.BoolVar(&opts.srcDir, "src-dir", false, MsgFlagSrcDir)
	flags.StringVar(&opts.importAlias, "import-alias", types.DefaultImportAlias, MsgFlagImportAlias)
	flags.BoolVar(&opts.authority, "authority", false, MsgFlagAuthority)
	flags.BoolVar(&opts.engine, "engine", false, MsgFlagEngine)
	flags.StringVar(&opts.template, "template", string(types.FamilyApp), MsgFlagTemplate)
	flags.BoolVar(&opts.useNPM, "use-npm", false, MsgFlagUseNPM)
	flags.BoolVar(&opts.usePNPM, "use-pnpm", false, MsgFlagUsePNPM)
	flags.BoolVar(&opts.useYarn, "use-yarn", false, MsgFlagUseYarn)
	flags.BoolVar(&opts.useBun, "use-bun", false, MsgFlagUseBun)
	flags.BoolVar(&opts.offline, "offline", false, MsgFlagOffline)
	flags.BoolVar(&opts.skipInstall, "skip-install", false, MsgFlagSkipInstall)
	flags.BoolVar(&opts.verify, "verify", false, MsgFlagVerify)
	flags.StringVar(&opts.format, "format", "auto", MsgFlagFormat)

	_ = rootCmd.RegisterFlagCompletionFunc("template", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{string(types.FamilyApp), string(types.FamilyDefault)}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.SetUsageTemplate(usageTemplate)

	rootCmd.AddCommand(newConfigCmd(&opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// request turns the parsed flags into an install request for dir
func (o createOptions) request(dir string) (types.InstallRequest, error) {
	if o.ts && o.js {
		return types.InstallRequest{}, fmt.Errorf("%s", MsgErrModeConflict)
	}
	mode := types.ModeTS
	if o.js {
		mode = types.ModeJS
	}

	pm, err := o.packageManager()
	if err != nil {
		return types.InstallRequest{}, err
	}

	root, err := filepath.Abs(strings.TrimSpace(dir))
	if err != nil {
		return types.InstallRequest{}, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	return types.InstallRequest{
		AppName:         filepath.Base(root),
		TargetRoot:      root,
		PackageManager:  pm,
		Template:        types.TemplateFamily(o.template),
		Mode:            mode,
		UseTailwind:     o.tailwind,
		UseEslint:       o.eslint,
		UseSourceDir:    o.srcDir,
		ImportAlias:     strings.TrimSpace(o.importAlias),
		EnableAuthority: o.authority,
		EnableEngine:    o.engine,
	}, nil
}

func (o createOptions) packageManager() (types.PackageManager, error) {
	var picked []types.PackageManager
	for pm, set := range map[types.PackageManager]bool{
		types.PackageManagerNPM:  o.useNPM,
		types.PackageManagerPNPM: o.usePNPM,
		types.PackageManagerYarn: o.useYarn,
		types.PackageManagerBun:  o.useBun,
	} {
		if set {
			picked = append(picked, pm)
		}
	}
	switch len(picked) {
	case 0:
		return installer.DetectPackageManager(os.Getenv(installer.UserAgentEnv)), nil
	case 1:
		return picked[0], nil
	default:
		return "", fmt.Errorf("%s", MsgErrManagerConflict)
	}
}

func runCreate(cmd *cobra.Command, dir string, opts createOptions) error {
	logger := logging.GetLogger("cli")

	format, err := ui.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	cfg, err := config.Load(config.LoadOptions{UserConfigPath: opts.configPath})
	if err != nil {
		return fmt.Errorf(MsgErrLoadConfig, err)
	}

	req, err := opts.request(dir)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	req.NetworkAvailable = !opts.offline
	if req.NetworkAvailable && req.PackageManager == types.PackageManagerYarn && !opts.skipInstall {
		req.NetworkAvailable = installer.IsOnline(ctx, nil, onlineProbeTimeout)
	}

	out := cmd.OutOrStdout()
	printer := ui.NewPrinter(out, format)
	printer.Creating(req.AppName, req.TargetRoot)
	if !opts.skipInstall {
		printer.UsingPackageManager(req.PackageManager)
		if !req.NetworkAvailable {
			printer.Offline()
		}
	}

	logger.Debug().
		Str("root", req.TargetRoot).
		Str("template", string(req.Template)).
		Str("mode", string(req.Mode)).
		Str("packageManager", string(req.PackageManager)).
		Msg("Resolved request")

	result, err := pipeline.InstallTemplate(ctx, req, pipeline.Options{
		Config:      cfg,
		Installer:   installer.New(nil, out, cmd.ErrOrStderr()),
		SkipInstall: opts.skipInstall,
		Verify:      opts.verify,
		OnInstall:   printer.Dependencies,
	})
	if err != nil {
		return err
	}

	printer.Success(req.AppName, result.Root)
	printer.NextSteps(req.AppName, req.PackageManager, result.Installed)
	return nil
}
