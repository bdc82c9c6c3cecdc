package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/torrent-clean/cmd/torrent-clean/tui"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/cleaner"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/cleanup"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/config"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/output"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/torrent"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/types"
)

// runClean reconciles the directory and deletes what the user chooses.
// Reconciliation always runs as a dry run so that the display filter and
// the prompts decide which extra files go.
func (a *app) runClean(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	dryRun, _ := flags.GetBool("dry-run")
	yes, _ := flags.GetBool("yes")
	torrentArg, _ := flags.GetString("torrent")
	dir, _ := flags.GetString("dir")
	ignore, _ := flags.GetStringSlice("ignore")
	include, _ := flags.GetStringSlice("include")
	reverse, _ := flags.GetBool("reverse")

	if dir == "" {
		dir = "."
	}

	formatter, err := output.Get(a.settings.Output)
	if err != nil {
		return a.fail(fmt.Errorf("%w (available: %s)", err, strings.Join(output.Available(), ", ")))
	}

	f, err := buildFilter(a.settings, include, reverse)
	if err != nil {
		return a.fail(err)
	}

	ctx := cmd.Context()

	id := torrent.StringID(torrentArg)
	if id.Kind() == torrent.KindFile {
		// Remembered paths must not depend on the working directory.
		text, _ := id.Text()
		if abs, err := filepath.Abs(text); err == nil {
			id = torrent.StringID(abs)
		}
	}

	res, err := cleaner.Run(ctx, cleaner.Options{
		TorrentID:    id,
		Directory:    dir,
		DryRun:       true,
		CustomConfig: customConfig(ignore),
		UseTrash:     a.settings.Trash,
		Resolver:     torrent.WithTimeout(torrent.NewClient(), a.settings.Timeout),
		OnConfigLoaded: func(id torrent.ID) {
			a.printVerbose("using torrent %s", id)
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: gave up after %s", err, a.settings.Timeout)
		}
		return a.fail(err)
	}

	files := res.Files()
	shown := f.Apply(files)
	result := buildResult(res, shown, len(files), dryRun)

	if res.SaveErr != nil {
		a.printWarning("could not remember torrent: %v", res.SaveErr)
	}

	switch {
	case dryRun || len(shown) == 0:
		return a.render(formatter, result)

	case yes:
		result.Deletion = output.NewDeletionSummary(a.delete(cmd.Context(), res, shown))
		return a.render(formatter, result)

	case humanReadable(a.settings.Output) && a.interactive():
		return a.interactiveDelete(cmd.Context(), formatter, res, result, shown)

	default:
		result.DryRun = true
		if err := a.render(formatter, result); err != nil {
			return err
		}
		a.printWarning("not a terminal; re-run with --yes to delete the listed files")
		return nil
	}
}

// humanReadable reports whether format can share the terminal with prompts.
func humanReadable(format string) bool {
	return format == "pretty" || format == "plain"
}

func (a *app) interactiveDelete(ctx context.Context, formatter output.Formatter, res *cleaner.Result, result *output.Result, shown []types.FileInfo) error {
	if err := a.render(formatter, result); err != nil {
		return err
	}

	chosen, ok, err := tui.SelectFiles(fmt.Sprintf("Extra files in %s", res.TorrentName), shown, a.tuiIO())
	if err != nil {
		return a.fail(err)
	}
	if !ok || len(chosen) == 0 {
		a.printInfo("Nothing deleted.")
		return nil
	}

	var size int64
	for _, fi := range chosen {
		size += fi.Size
	}
	note := ""
	if a.settings.Trash {
		note = "Files will be moved to the trash."
	}
	confirmed, err := tui.Confirm(
		fmt.Sprintf("Delete %d file(s) (%s)?", len(chosen), types.FormatSize(size)), note, a.tuiIO())
	if err != nil {
		return a.fail(err)
	}
	if !confirmed {
		a.printInfo("Nothing deleted.")
		return nil
	}

	rep := a.delete(ctx, res, chosen)
	a.printInfo("Deleted %d file(s), removed %d empty director(ies).", len(rep.Deleted), len(rep.PrunedDirs))
	return nil
}

// delete removes files through res and reports failures as warnings.
func (a *app) delete(ctx context.Context, res *cleaner.Result, files []types.FileInfo) *cleanup.Report {
	paths := make([]string, len(files))
	for i, fi := range files {
		paths[i] = fi.Path
	}
	rep := res.DeleteFiles(ctx, paths)
	for _, failed := range rep.Failed {
		a.printWarning("could not delete %s: %v", failed.Path, failed.Err)
	}
	for _, failed := range rep.PruneErrors {
		a.printWarning("could not remove directory %s: %v", failed.Path, failed.Err)
	}
	return rep
}

func (a *app) render(formatter output.Formatter, result *output.Result) error {
	var buf bytes.Buffer
	if err := formatter.Format(&buf, result); err != nil {
		return a.fail(err)
	}
	_, err := a.stdout.Write(buf.Bytes())
	return err
}

func buildResult(res *cleaner.Result, shown []types.FileInfo, total int, dryRun bool) *output.Result {
	result := &output.Result{
		TorrentName: res.TorrentName,
		Directory:   res.Directory,
		Files:       output.NewFiles(shown),
		TotalFiles:  total,
		DryRun:      dryRun,
	}
	if text, ok := res.TorrentID.Text(); ok {
		result.TorrentID = text
	}
	for _, e := range res.Listing.Errors {
		if e.Path == "" {
			result.Warnings = append(result.Warnings, e.Error)
			continue
		}
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", e.Path, e.Error))
	}
	if res.SaveErr != nil {
		result.Warnings = append(result.Warnings, res.SaveErr.Error())
	}
	return result
}

// customConfig turns --ignore values into an override configuration.
func customConfig(ignore []string) config.Config {
	if len(ignore) == 0 {
		return nil
	}
	patterns := make([]any, len(ignore))
	for i, p := range ignore {
		patterns[i] = p
	}
	return config.Config{config.KeyIgnore: patterns}
}

func stdinIsTerminal() bool {
	return term.IsTerminal(os.Stdin.Fd())
}
