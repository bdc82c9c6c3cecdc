package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/torrent-clean/cmd/torrent-clean/tui"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/logging"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/settings"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	v        *viper.Viper
	settings *settings.Settings

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// interactive reports whether prompts can be shown.
	interactive func() bool
}

func newRootCmd() *cobra.Command {
	a := &app{
		v:           settings.New(),
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		interactive: stdinIsTerminal,
	}
	return a.rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "torrent-clean",
		Short: "Remove files that do not belong to a torrent",
		Long: `torrent-clean compares a download directory with the file list of a torrent
and deletes the files the torrent does not contain. Directories left empty are
removed as well.

The torrent can be a magnet link, an info-hash or a path to a .torrent file.
With rememberLastTorrent set in a .torrent-cleanrc file, the torrent is
remembered and may be omitted next time.

Examples:
  torrent-clean -t show.torrent -d ~/Downloads/show   # review and delete
  torrent-clean -t 'magnet:?xt=urn:btih:...' -n       # dry run in the current directory
  torrent-clean -y -o paths                           # delete without asking, remembered torrent
  torrent-clean config show ~/Downloads/show          # show the merged rc config`,
		Args:              cobra.NoArgs,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initialize,
		RunE:              a.runClean,
	}
	cmd.SetVersionTemplate("torrent-clean {{.Version}}\n")
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	flags := cmd.Flags()
	flags.StringP("torrent", "t", "", "magnet link, info-hash or .torrent file (default: lastTorrent)")
	flags.StringP("dir", "d", "", "download directory to clean (default: current directory)")
	flags.BoolP("version", "v", false, "print the version and exit")
	flags.BoolP("dry-run", "n", false, "list extra files without deleting anything")
	flags.BoolP("yes", "y", false, "delete all listed extra files without prompting")
	flags.StringSliceP("ignore", "i", nil, "additional ignore globs (can be repeated)")
	flags.StringSlice("include", nil, "only list extra files matching these globs")
	flags.StringP("output", "o", settings.DefaultOutput, "output format: pretty, plain, json, yaml, paths, null")
	flags.String("sort", settings.DefaultSort, "order extra files by path, size or age")
	flags.Bool("reverse", false, "reverse the sort order")
	flags.Int("limit", settings.DefaultLimit, "list at most this many extra files (0 = all)")
	flags.String("min-size", "", "only list extra files at least this large (e.g. 10M)")
	flags.Bool("trash", false, "move files to the trash instead of deleting them")
	flags.Duration("timeout", settings.DefaultTimeout, "how long to wait for torrent metadata")

	pflags := cmd.PersistentFlags()
	pflags.Bool("verbose", false, "debug output on stderr")
	pflags.BoolP("quiet", "q", false, "minimal output")

	for key, flag := range map[string]string{
		"output":   "output",
		"sort":     "sort",
		"limit":    "limit",
		"min_size": "min-size",
		"trash":    "trash",
		"timeout":  "timeout",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}
	_ = a.v.BindPFlag("verbose", pflags.Lookup("verbose"))
	_ = a.v.BindPFlag("quiet", pflags.Lookup("quiet"))

	cmd.AddCommand(a.configCmd(), newVersionCmd())
	return cmd
}

// initialize loads the settings and starts logging.
func (a *app) initialize(*cobra.Command, []string) error {
	s, err := settings.Load(a.v)
	if err != nil {
		return a.fail(err)
	}
	a.settings = s

	cfg, err := s.LoggingConfig()
	if err != nil {
		return a.fail(err)
	}
	switch {
	case a.verbose():
		cfg.ConsoleLevel = "debug"
	case a.quiet():
		cfg.ConsoleLevel = "error"
	default:
		cfg.ConsoleLevel = "warn"
	}
	cfg.Console = a.stderr

	if err := logging.Init(cfg); err != nil {
		// The tool works without a log file.
		a.printVerbose("logging disabled: %v", err)
	}
	return nil
}

func (a *app) verbose() bool {
	return a.v.GetBool("verbose")
}

func (a *app) quiet() bool {
	return a.v.GetBool("quiet")
}

func (a *app) tuiIO() tui.IO {
	return tui.IO{In: a.stdin, Out: a.stdout}
}

// printVerbose prints a message if verbose mode is enabled.
func (a *app) printVerbose(format string, args ...any) {
	if a.verbose() && !a.quiet() {
		fmt.Fprintf(a.stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func (a *app) printInfo(format string, args ...any) {
	if !a.quiet() {
		fmt.Fprintf(a.stdout, format+"\n", args...)
	}
}

// printWarning prints a warning to stderr.
func (a *app) printWarning(format string, args ...any) {
	fmt.Fprintf(a.stderr, "Warning: "+format+"\n", args...)
}

// fail prints err and returns it so the process exits non-zero.
func (a *app) fail(err error) error {
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
	return err
}
