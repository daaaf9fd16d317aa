// The MIT License
//
// Copyright (c) 2021 Temporal Technologies Inc.  All rights reserved.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/contrib/annotations"
	"go.temporal.io/sdk/contrib/annotations/envconfig"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func (o *rootOptions) load(file string) (*envconfig.DefaultsConfig, error) {
	// LoadDefaults treats a missing file as empty, which is never what a user of this command means.
	if _, err := os.Stat(file); err != nil {
		return nil, err
	}
	conf, err := envconfig.LoadDefaults(envconfig.LoadDefaultsOptions{
		ConfigFilePath:   file,
		ConfigFileStrict: true,
		DisableEnv:       !o.env,
	})
	if err != nil {
		return nil, err
	}
	o.logger.Debug("Loaded defaults file",
		zap.String("file", file),
		zap.Int("types", len(conf.Types)),
		zap.Bool("globalDefaults", conf.Defaults != nil))
	return conf, nil
}

func newValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a defaults file for unknown keys and invalid values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := opts.load(args[0])
			if err != nil {
				return err
			}
			if err := conf.Validate(); err != nil {
				return fmt.Errorf("invalid defaults in %v: %w", args[0], err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%v: ok (%d types)\n", args[0], len(conf.Types))
			return err
		},
	}
}

func newShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file> [type...]",
		Short: "Print the resolved defaults of the global section and each type",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := opts.load(args[0])
			if err != nil {
				return err
			}
			names := args[1:]
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				if conf.Defaults != nil {
					d, err := annotations.DescribeAttributes("defaults", conf.Defaults.Attributes())
					if err != nil {
						return err
					}
					if err := writeDescription(out, d); err != nil {
						return err
					}
				}
				names = conf.TypeNames()
			}
			var errs error
			for _, name := range names {
				d, err := conf.Describe(name)
				if err != nil {
					errs = multierr.Append(errs, err)
					continue
				}
				if err := writeDescription(out, d); err != nil {
					return err
				}
			}
			return errs
		},
	}
}

func writeDescription(w io.Writer, d annotations.Description) error {
	_, err := fmt.Fprintln(w, d.String())
	return err
}

func newFmtCommand(opts *rootOptions) *cobra.Command {
	var write bool
	var indent string
	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Print a defaults file in canonical form",
		Long: `Reads a TOML or YAML defaults file and prints it in canonical form, using the
format of the input file. With --write the file is rewritten in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]
			if write && opts.env {
				return errors.New("--env cannot be combined with --write, it would store environment overrides in the file")
			}
			conf, err := opts.load(file)
			if err != nil {
				return err
			}
			if err := conf.Validate(); err != nil {
				return fmt.Errorf("invalid defaults in %v: %w", file, err)
			}
			var indentOverride *string
			if cmd.Flags().Changed("indent") {
				indentOverride = &indent
			}
			b, err := format(conf, file, indentOverride)
			if err != nil {
				return err
			}
			if !write {
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			info, err := os.Stat(file)
			if err != nil {
				return err
			}
			opts.logger.Debug("Rewriting defaults file", zap.String("file", file))
			return os.WriteFile(file, b, info.Mode().Perm())
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the file")
	cmd.Flags().StringVar(&indent, "indent", "", "indentation of TOML subtables")
	return cmd
}

func format(conf *envconfig.DefaultsConfig, file string, indent *string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		b, err := conf.ToYAML()
		if err != nil {
			return nil, fmt.Errorf("failed encoding YAML: %w", err)
		}
		return b, nil
	default:
		return conf.ToTOML(envconfig.DefaultsConfigToTOMLOptions{OverrideIndent: indent})
	}
}
