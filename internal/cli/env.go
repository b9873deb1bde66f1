/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cli holds the setup shared by sapling's commands: the working
// directory's config layered under environment variables and flags.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"bennypowers.dev/sapling/config"
	saplingfs "bennypowers.dev/sapling/fs"
	"bennypowers.dev/sapling/language"
)

// EnvPrefix prefixes environment overrides, e.g. SAPLING_PARSE_TIMEOUT.
const EnvPrefix = "SAPLING"

// Env is what a command runs against.
type Env struct {
	FS     saplingfs.FileSystem
	Cwd    string
	Config *config.Config
	Loader *language.Loader

	// Settings resolves "<section>.<flag>" keys: a changed flag wins over
	// SAPLING_<SECTION>_<FLAG>, which wins over the config file, which wins
	// over the flag's default.
	Settings *viper.Viper
}

// Load reads the config of the working directory and binds cmd's own
// flags under section.
func Load(cmd *cobra.Command, section string) (*Env, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	filesystem := saplingfs.NewOSFileSystem()

	cfg, err := config.Load(filesystem, cwd)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg == nil {
		cfg = config.Default()
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.MergeConfigMap(settingsOf(cfg)); err != nil {
		return nil, err
	}

	var bindErr error
	cmd.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(section+"."+f.Name, f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return nil, bindErr
	}

	return &Env{
		FS:       filesystem,
		Cwd:      cwd,
		Config:   cfg,
		Loader:   language.NewLoader(cfg),
		Settings: v,
	}, nil
}

func settingsOf(cfg *config.Config) map[string]any {
	return map[string]any{
		"parse": map[string]any{
			"timeout":  cfg.Parse.Timeout,
			"encoding": cfg.Parse.Encoding,
			"quiet":    cfg.Parse.Quiet,
			"time":     cfg.Parse.Time,
		},
		"lsp": map[string]any{
			"timeout": cfg.LSP.Timeout,
		},
		"mcp": map[string]any{
			"timeout": cfg.Parse.Timeout,
		},
	}
}
