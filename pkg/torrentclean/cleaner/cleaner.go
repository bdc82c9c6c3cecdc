// Package cleaner runs one reconciliation of a download directory against a
// torrent: it loads the rc configuration, lists the directory and resolves
// the torrent concurrently, computes the extra files and either deletes them
// immediately or hands them back for a later DeleteFiles call.
package cleaner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/cleanup"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/config"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/logging"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/reconcile"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/scanner"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/torrent"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/types"
)

var (
	// ErrMissingTorrentID is returned when no identifier was given and the
	// configuration does not remember one.
	ErrMissingTorrentID = errors.New("no torrent given and no lastTorrent remembered")

	// ErrMissingDirectory is returned when Options.Directory is empty.
	ErrMissingDirectory = errors.New("no directory given")
)

// Options configures Run.
type Options struct {
	// TorrentID identifies the torrent. When zero, the configuration's
	// lastTorrent is used.
	TorrentID torrent.ID

	// Directory is the download directory to clean.
	Directory string

	// DryRun defers deletion to Result.DeleteFiles.
	DryRun bool

	// CustomConfig is merged over every rc file.
	CustomConfig config.Config

	// OnConfigLoaded is called with the identifier that will be resolved,
	// after the configuration has been loaded.
	OnConfigLoaded func(id torrent.ID)

	// OnProgress receives directory scan progress.
	OnProgress func(types.ScanProgress)

	// Resolver resolves TorrentID. Nil uses torrent.NewClient().
	Resolver torrent.Resolver

	// Fs holds the rc files. Nil uses the OS filesystem.
	Fs afero.Fs

	// UseTrash moves deleted files to the trash.
	UseTrash bool

	// Remove overrides file deletion, mainly for tests.
	Remove cleanup.RemoveFunc
}

// Result is the outcome of Run.
type Result struct {
	TorrentName string
	TorrentID   torrent.ID
	Directory   string

	// ExtraFiles are absolute paths in listing order.
	ExtraFiles []string

	// Listing is the directory scan the extra files were computed from.
	Listing *types.ScanResult

	// Metadata is the resolved torrent.
	Metadata *torrent.Metadata

	// Config is the merged configuration.
	Config config.Config

	// Deleted is the deletion report when Run deleted eagerly.
	Deleted *cleanup.Report

	// SavedPath is the rc file lastTorrent was written to.
	SavedPath string

	// SaveErr is a failure to remember the torrent. It does not fail Run.
	SaveErr error

	deleteOpts cleanup.Options
}

// DeleteFiles deletes paths and prunes directories left empty under the
// result's directory.
func (r *Result) DeleteFiles(ctx context.Context, paths []string) *cleanup.Report {
	return cleanup.DeleteFilesAndPruneEmptyDirs(ctx, r.Directory, paths, r.deleteOpts)
}

// Files returns the scanned entries of the extra files.
func (r *Result) Files() []types.FileInfo {
	byPath := make(map[string]types.FileInfo, len(r.Listing.Files))
	for _, fi := range r.Listing.Files {
		byPath[fi.Path] = fi
	}
	files := make([]types.FileInfo, 0, len(r.ExtraFiles))
	for _, p := range r.ExtraFiles {
		if fi, ok := byPath[p]; ok {
			files = append(files, fi)
		}
	}
	return files
}

// Run performs one reconciliation. Errors from loading the configuration,
// resolving the torrent or scanning the directory abort before anything is
// deleted.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Directory == "" {
		return nil, ErrMissingDirectory
	}
	dir, err := filepath.Abs(opts.Directory)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", opts.Directory, err)
	}
	logger := logging.Get("cleaner").With("dir", dir)

	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = torrent.NewClient()
	}

	loaded, err := config.Load(fsys, dir, opts.CustomConfig)
	if err != nil {
		return nil, err
	}
	cfg := loaded.Config

	id := opts.TorrentID
	if id.IsZero() {
		id = torrent.StringID(cfg.LastTorrent())
	}
	if id.IsZero() {
		return nil, ErrMissingTorrentID
	}
	if opts.OnConfigLoaded != nil {
		opts.OnConfigLoaded(id)
	}

	logger.Debug("reconciling", "torrent", id.String(), "dry_run", opts.DryRun)

	var (
		listing *types.ScanResult
		meta    *torrent.Metadata
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s := scanner.New(scanner.Options{
			Root:       dir,
			Ignore:     cfg.Ignore(),
			OnProgress: opts.OnProgress,
		})
		var err error
		listing, err = s.Scan(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		meta, err = resolver.Resolve(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		TorrentName: meta.Name,
		TorrentID:   id,
		Directory:   dir,
		ExtraFiles:  reconcile.ExtraFiles(meta, listing.Paths(), dir),
		Listing:     listing,
		Metadata:    meta,
		Config:      cfg,
		deleteOpts:  cleanup.Options{UseTrash: opts.UseTrash, Remove: opts.Remove},
	}

	logger.Info("reconciled",
		"torrent", meta.Name,
		"listed", len(listing.Files),
		"extra", len(result.ExtraFiles))

	if !opts.DryRun {
		result.Deleted = result.DeleteFiles(ctx, result.ExtraFiles)
	}

	if text, ok := id.Text(); ok && cfg.RememberLastTorrent() {
		result.SavedPath, result.SaveErr = remember(fsys, dir, loaded.Source, text)
		if result.SaveErr != nil {
			logger.Warn("could not remember torrent", "error", result.SaveErr)
		}
	}

	return result, nil
}

// remember writes lastTorrent into the rc file of dir, creating one when dir
// has none. Only that file's own keys are written back.
func remember(fsys afero.Fs, dir string, source *config.Source, text string) (string, error) {
	params := config.SaveParams{SaveDir: dir, Config: config.Config{}}
	if source != nil {
		params.ExistingPath = source.Path
		params.Config = source.Config.Clone()
	}
	if params.Config == nil {
		params.Config = config.Config{}
	}
	params.Config.SetLastTorrent(text)

	path, err := config.Save(fsys, params)
	if err != nil {
		return "", fmt.Errorf("saving last torrent: %w", err)
	}
	return path, nil
}
