package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Looked up in the working directory when --config is not given
const defaultConfigFile = "xvm-bridge.toml"

type bridgeConfig struct {
	Bridge bridgeSection `toml:"bridge"`
	IO     ioSection     `toml:"io"`
}

type bridgeSection struct {
	Mode       string `toml:"mode"`
	ModuleName string `toml:"module_name"`
	EvmID      string `toml:"evm_id"`
}

type ioSection struct {
	Input  string `toml:"input"`
	Output string `toml:"output"`
}

// A decoded config file. Paths in [io] are relative to Root.
type configFile struct {
	Path   string
	Root   string
	Config bridgeConfig
	meta   toml.MetaData
}

// findConfig returns the config file to use, if any. An explicit path must exist.
func findConfig(explicit string) (string, bool, error) {
	if explicit != "" {
		return explicit, true, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, true, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", false, errors.Wrapf(err, "failed to stat %q", defaultConfigFile)
	}
	return "", false, nil
}

func loadConfig(path string) (*configFile, error) {
	var cfg bridgeConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: failed to parse TOML", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, errors.Errorf("%s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %q", path)
	}
	return &configFile{
		Path:   path,
		Root:   filepath.Dir(abs),
		Config: cfg,
		meta:   meta,
	}, nil
}

// apply fills every option whose flag was not set on the command line and
// whose key the file defines.
func (c *configFile) apply(cmd *cobra.Command, opts *options) {
	flags := cmd.Flags()
	set := func(flag string, section string, key string, dst *string, value string) {
		if flags.Changed(flag) || !c.meta.IsDefined(section, key) {
			return
		}
		*dst = value
	}

	set("mode", "bridge", "mode", &opts.mode, c.Config.Bridge.Mode)
	set("module-name", "bridge", "module_name", &opts.moduleName, c.Config.Bridge.ModuleName)
	set("evm-id", "bridge", "evm_id", &opts.evmID, c.Config.Bridge.EvmID)
	set("input", "io", "input", &opts.input, c.resolve(c.Config.IO.Input))
	set("output", "io", "output", &opts.output, c.resolve(c.Config.IO.Output))
}

func (c *configFile) resolve(path string) string {
	if path == "" || path == "-" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Root, filepath.FromSlash(path))
}
