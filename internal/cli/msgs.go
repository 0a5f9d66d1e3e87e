package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Create a ProcessCube app"
	MsgVersionShort    = "Print version information"
	MsgConfigShort     = "Print the effective configuration as TOML"
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagTS          = "Initialize as a TypeScript project (default)"
	MsgFlagJS          = "Initialize as a JavaScript project"
	MsgFlagTailwind    = "Initialize with Tailwind CSS config"
	MsgFlagEslint      = "Initialize with ESLint config"
	MsgFlagSrcDir      = "Initialize inside a `src/` directory"
	MsgFlagImportAlias = "Specify import alias to use"
	MsgFlagAuthority   = "Add the ProcessCube Authority integration"
	MsgFlagEngine      = "Add the ProcessCube Engine integration"
	MsgFlagTemplate    = "Template family to start from (app, default)"
	MsgFlagUseNPM      = "Bootstrap the application using npm"
	MsgFlagUsePNPM     = "Bootstrap the application using pnpm"
	MsgFlagUseYarn     = "Bootstrap the application using Yarn"
	MsgFlagUseBun      = "Bootstrap the application using Bun"
	MsgFlagOffline     = "Install from the local package cache only"
	MsgFlagSkipInstall = "Write the project without installing dependencies"
	MsgFlagVerify      = "Check the generated project before installing"
	MsgFlagFormat      = "Output format (auto, term, text)"
	MsgFlagDefaults    = "Print the built-in defaults with their comments"

	// Error messages
	MsgErrNoDirectory     = "please specify the project directory"
	MsgErrModeConflict    = "--ts and --js cannot be combined"
	MsgErrManagerConflict = "only one of --use-npm, --use-pnpm, --use-yarn and --use-bun may be given"
	MsgErrLoadConfig      = "failed to load configuration: %w"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
