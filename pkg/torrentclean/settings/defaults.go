// Package settings manages per-user torrent-clean settings stored under the
// XDG config directory. They tune the command line tool and are distinct
// from the .torrent-cleanrc files that travel with download directories.
package settings

import "time"

// Default setting values.
const (
	// DefaultOutput is the output format used when none is configured.
	DefaultOutput = "pretty"

	// DefaultSort is the field extra files are ordered by.
	DefaultSort = "path"

	// DefaultLimit shows every extra file.
	DefaultLimit = 0

	// DefaultTimeout bounds torrent metadata resolution.
	DefaultTimeout = 2 * time.Minute

	// FileName is the settings file name inside Dir().
	FileName = "settings.yaml"

	// EnvPrefix prefixes environment overrides, e.g. TORRENT_CLEAN_OUTPUT.
	EnvPrefix = "TORRENT_CLEAN"
)

// DefaultComponents are the per-component log levels written by WriteDefault.
var DefaultComponents = map[string]string{
	"config":  "info",
	"scanner": "info",
	"torrent": "info",
	"cleanup": "info",
}
