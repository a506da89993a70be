package main

import (
	"bytes"
	"io"
	"os"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/jshufro/xvm-bridge/lib/errs"
	"github.com/jshufro/xvm-bridge/lib/evm"
	"github.com/jshufro/xvm-bridge/lib/ink2sol"
	"github.com/jshufro/xvm-bridge/lib/sol2ink"
)

// Translation directions
const (
	modeEvmToInk = "evm-to-ink"
	modeInkToEvm = "ink-to-evm"
)

const defaultEvmID = "0x0F"

type options struct {
	mode       string
	moduleName string
	evmID      string
	input      string
	output     string
	dumpModel  bool
}

func (o *options) validate() error {
	switch o.mode {
	case modeEvmToInk:
		if o.moduleName == "" {
			return errors.New("--module-name is required in evm-to-ink mode")
		}
	case modeInkToEvm:
		if o.dumpModel {
			return errors.New("--dump-model is only supported in evm-to-ink mode")
		}
	default:
		return errors.Errorf("unknown mode %q (%s|%s)", o.mode, modeEvmToInk, modeInkToEvm)
	}
	return nil
}

// run reads the whole input, translates it and only then writes the output,
// so nothing is written when any stage fails.
func run(opts *options, logger *zap.Logger, stdin io.Reader, stdout io.Writer) error {
	data, err := readInput(opts.input, stdin)
	if err != nil {
		return err
	}
	logger.Info("read input", zap.String("path", displayPath(opts.input, "stdin")), zap.Int("bytes", len(data)))

	var out string
	switch opts.mode {
	case modeEvmToInk:
		out, err = evmToInk(data, opts, logger)
	case modeInkToEvm:
		out, err = ink2sol.Render(bytes.NewReader(data), logger)
	}
	if err != nil {
		return err
	}

	if err := writeOutput(opts.output, stdout, out); err != nil {
		return err
	}
	logger.Info("wrote output", zap.String("path", displayPath(opts.output, "stdout")), zap.Int("bytes", len(out)))
	return nil
}

func evmToInk(data []byte, opts *options, logger *zap.Logger) (string, error) {
	if !opts.dumpModel {
		return sol2ink.Render(bytes.NewReader(data), opts.moduleName, opts.evmID, logger)
	}

	items, err := evm.ParseAbi(data)
	if err != nil {
		return "", err
	}
	module, err := sol2ink.BuildModule(opts.moduleName, opts.evmID, items, logger)
	if err != nil {
		return "", err
	}
	encoded, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(module, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "unable to encode module")
	}
	return string(encoded) + "\n", nil
}

func isStdio(path string) bool {
	return path == "" || path == "-"
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if isStdio(path) {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.WithStack(&errs.ReadInputError{Cause: err})
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(&errs.ReadInputError{Path: path, Cause: err})
	}
	return data, nil
}

func writeOutput(path string, stdout io.Writer, out string) error {
	if isStdio(path) {
		if _, err := io.WriteString(stdout, out); err != nil {
			return errors.WithStack(&errs.WriteOutputError{Cause: err})
		}
		return nil
	}

	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return errors.WithStack(&errs.WriteOutputError{Path: path, Cause: err})
	}
	return nil
}

func displayPath(path string, fallback string) string {
	if isStdio(path) {
		return fallback
	}
	return path
}

// newLogger writes human readable logs to w. Quiet runs log nothing.
func newLogger(w io.Writer, verbose bool, quiet bool) *zap.Logger {
	if quiet {
		return zap.NewNop()
	}

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	encoderConfig.CallerKey = ""
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if !color.NoColor {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zap.New(core)
}

// setColor decides whether stderr output is colorized.
func setColor(mode string) error {
	switch mode {
	case "auto":
		color.NoColor = os.Getenv("NO_COLOR") != "" || !isTerminal(os.Stderr)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return errors.Errorf("unknown color mode %q (auto|on|off)", mode)
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
