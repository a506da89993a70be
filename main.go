package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errorColor = color.New(color.FgRed, color.Bold)

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "xvm-bridge",
		Short: "Generate XVM bridges between EVM and ink! contracts",
		Long: `xvm-bridge reads an EVM contract ABI and writes an ink! module calling it over XVM,
or reads ink! metadata and writes a Solidity contract calling it over XVM.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBridge(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "input file (default: stdin)")
	flags.StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	flags.StringVarP(&opts.moduleName, "module-name", "m", "", "name of the generated ink! module (evm-to-ink only)")
	flags.StringVarP(&opts.evmID, "evm-id", "e", defaultEvmID, "XVM id of the EVM, emitted verbatim")
	flags.StringVar(&opts.mode, "mode", modeEvmToInk, "translation direction ("+modeEvmToInk+"|"+modeInkToEvm+")")
	flags.BoolVar(&opts.dumpModel, "dump-model", false, "write the module model as JSON instead of ink! source (evm-to-ink only)")

	cmd.PersistentFlags().String("config", "", "config file (default: ./"+defaultConfigFile+" when present)")
	cmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	cmd.PersistentFlags().Bool("verbose", false, "log every translation step")
	cmd.PersistentFlags().Bool("quiet", false, "suppress all logging")

	return cmd
}

func runBridge(cmd *cobra.Command, opts *options) error {
	persistent := cmd.Root().PersistentFlags()

	colorMode, err := persistent.GetString("color")
	if err != nil {
		return err
	}
	if err := setColor(colorMode); err != nil {
		return err
	}

	verbose, err := persistent.GetBool("verbose")
	if err != nil {
		return err
	}
	quiet, err := persistent.GetBool("quiet")
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), verbose, quiet)
	defer func() { _ = logger.Sync() }()

	configPath, err := persistent.GetString("config")
	if err != nil {
		return err
	}
	path, ok, err := findConfig(configPath)
	if err != nil {
		return err
	}
	if ok {
		cfg, err := loadConfig(path)
		if err != nil {
			return err
		}
		cfg.apply(cmd, opts)
		logger.Debug("loaded config", zap.String("path", path))
	}

	if err := opts.validate(); err != nil {
		return err
	}

	return run(opts, logger, cmd.InOrStdin(), cmd.OutOrStdout())
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
