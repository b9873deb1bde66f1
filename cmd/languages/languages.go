/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package languages provides the dump-languages command for sapling.
package languages

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/sapling/internal/cli"
	"bennypowers.dev/sapling/language"
)

// Cmd is the dump-languages cobra command.
var Cmd = NewCmd()

// NewCmd returns a dump-languages command with fresh flags.
func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-languages",
		Short: "Print every known language",
		Long:  `Print the scope, file types and source of every bundled language, including file types added by .config/sapling.yaml.`,
		Args:  cobra.NoArgs,
		RunE:  run,
	}
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
	return cmd
}

type languageOutput struct {
	Scope     string   `json:"scope"`
	FileTypes []string `json:"fileTypes"`
	Source    string   `json:"source"`
}

func run(cmd *cobra.Command, args []string) error {
	env, err := cli.Load(cmd, "languages")
	if err != nil {
		return err
	}
	format := env.Settings.GetString("languages.format")

	switch format {
	case "json":
		return outputJSON(cmd.OutOrStdout(), env.Loader.All())
	case "text":
		return outputText(cmd.OutOrStdout(), env.Loader.All())
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func outputText(w io.Writer, langs []*language.Language) error {
	for _, lang := range langs {
		if _, err := fmt.Fprintf(w, "scope: %s\nfile_types: %s\nsource: %s\n\n",
			lang.Scope, strings.Join(lang.FileTypes, ", "), lang.Source()); err != nil {
			return err
		}
	}
	return nil
}

func outputJSON(w io.Writer, langs []*language.Language) error {
	output := make([]languageOutput, 0, len(langs))
	for _, lang := range langs {
		output = append(output, languageOutput{
			Scope:     lang.Scope,
			FileTypes: lang.FileTypes,
			Source:    lang.Source(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
