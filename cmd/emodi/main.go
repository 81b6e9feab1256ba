// Package main provides a command line client that runs transformation
// commands locally, without the chat integration.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
	"github.com/jo-hoe/emodi/internal/backend/publish"
	"github.com/jo-hoe/emodi/internal/core"
)

func defaultConfigPath() string {
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(cwd, "config.yaml")
}

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "emodi",
		Short:         "Transform emoji with filter pipelines",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "path to the configuration file")

	rootCmd.AddCommand(newTransformCmd(&configPath), newFiltersCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newTransformCmd(configPath *string) *cobra.Command {
	var team, output string

	cmd := &cobra.Command{
		Use:   "transform [flags] '<:emoji: | filter args ...>'",
		Short: "Run a transformation command and write the encoded result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := newService(*configPath)
			if err != nil {
				return err
			}
			defer service.Close()

			result, err := service.Transform(cmd.Context(), team, strings.Join(args, " "))
			if err != nil {
				return err
			}
			data, contentType, err := emoji.Encode(result)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if filepath.Ext(output) == "" {
				output += publish.Extension(contentType)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(os.Stderr, "wrote %s (%s, %d frames)\n", output, contentType, result.FrameCount())
			return nil
		},
	}
	cmd.Flags().StringVarP(&team, "team", "t", "", "team whose custom emoji are visible")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	return cmd
}

func newFiltersCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "List the available filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := newService(*configPath)
			if err != nil {
				return err
			}
			defer service.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, f := range service.ListFilters() {
				fmt.Fprintf(w, "%s\t%s\n", f.Name, f.Signature)
			}
			return w.Flush()
		},
	}
}

// newService loads the configuration, falling back to defaults when the
// file does not exist.
func newService(configPath string) (*core.CoreService, error) {
	config, err := core.LoadConfig(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		config, err = core.DefaultConfig()
	}
	if err != nil {
		return nil, err
	}
	return core.NewCoreService(config)
}
