package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/config"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/logging"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/settings"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long: `Inspect torrent-clean configuration.

Per-directory options live in .torrent-cleanrc files (extension-less, .json,
.yaml or .yml). Every such file from a directory up to the filesystem root is
merged, closer files taking precedence.

Application settings are read from:
  1. $XDG_CONFIG_HOME/torrent-clean/settings.yaml (if set)
  2. ~/.config/torrent-clean/settings.yaml

Environment variables override settings using the TORRENT_CLEAN_ prefix:
  TORRENT_CLEAN_OUTPUT=json
  TORRENT_CLEAN_LOGGING_LEVEL=debug`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show [dir]",
			Short: "Show the merged rc configuration and settings",
			Args:  cobra.MaximumNArgs(1),
			RunE:  a.runConfigShow,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show the settings file path",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), settings.Path())
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Create a default settings file",
			Args:  cobra.NoArgs,
			RunE:  a.runConfigInit,
		},
	)
	return cmd
}

func (a *app) runConfigShow(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	loaded, err := config.Load(afero.NewOsFs(), dir, nil)
	if err != nil {
		return a.fail(err)
	}

	data, err := config.Encode(loaded.Config, config.FormatYAML)
	if err != nil {
		return a.fail(err)
	}

	w := cmd.OutOrStdout()
	if loaded.Source != nil {
		fmt.Fprintf(w, "rc file:       %s\n", loaded.Source.Path)
	} else {
		fmt.Fprintln(w, "rc file:       (none in this directory)")
	}
	if used := a.v.ConfigFileUsed(); used != "" {
		fmt.Fprintf(w, "settings file: %s\n", used)
	} else {
		fmt.Fprintln(w, "settings file: (using defaults, no file found)")
	}
	logPath := a.settings.Logging.Path
	if logPath == "" {
		logPath = logging.DefaultLogPath()
	}
	fmt.Fprintf(w, "log file:      %s\n", logPath)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Merged configuration:")
	fmt.Fprintln(w, "---------------------")
	_, err = w.Write(data)
	return err
}

func (a *app) runConfigInit(cmd *cobra.Command, _ []string) error {
	path, created, err := settings.WriteDefault()
	if err != nil {
		return a.fail(err)
	}
	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Settings file already exists: %s\n", path)
	}
	return nil
}
