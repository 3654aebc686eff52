//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Copyright (C) 2025 Aaron Mathis aaron.mathis@gmail.com
//
// This file is part of Tabular.
//
// Tabular is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Tabular is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Tabular. If not, see https://www.gnu.org/licenses/.

// Command tabular converts a tabular data file from one format to
// another, driven by a JSON template. Paths may be local or s3:// URIs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aaronlmathis/tabular"
	"github.com/aaronlmathis/tabular/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "tabular",
		Short: "Template-driven tabular file converter",
		Long: `tabular reads a data file (csv, json, or parquet), applies the
transformations described in a JSON template, and writes the result
in the template's output format. Input and output paths may be local
files or s3://bucket/key URIs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v)
		},
	}

	cmd.Flags().StringP("template", "t", "", "path to the conversion template (required)")
	cmd.Flags().StringP("input", "i", "", "path to the input data file (required)")
	cmd.Flags().StringP("output", "o", "", "path to write the converted output (required)")
	cmd.Flags().String("log-level", "INFO", "log level: DEBUG, INFO, WARNING, ERROR, CRITICAL")

	// Every flag can also come from the environment, e.g. TABULAR_TEMPLATE.
	v.SetEnvPrefix("TABULAR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		panic(err)
	}

	return cmd
}

func run(ctx context.Context, v *viper.Viper) error {
	level, err := logger.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	templatePath := v.GetString("template")
	inputPath := v.GetString("input")
	outputPath := v.GetString("output")
	var missing []string
	if templatePath == "" {
		missing = append(missing, "--template")
	}
	if inputPath == "" {
		missing = append(missing, "--input")
	}
	if outputPath == "" {
		missing = append(missing, "--output")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := tabular.Convert(ctx, tabular.ConvertOptions{
		TemplatePath: templatePath,
		InputPath:    inputPath,
		OutputPath:   outputPath,
	})
	if err != nil {
		logger.Error("conversion failed", "error", err)
		return err
	}

	logger.Info("conversion complete",
		"rows", result.Dataset.NumRows(),
		"cols", result.Dataset.NumCols(),
		"warnings", len(result.Warnings))
	return nil
}
