package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/cleanup"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/types"
)

func sampleResult() *Result {
	files := NewFiles([]types.FileInfo{
		{Path: "/dl/show/sample.mkv", RelPath: "sample.mkv", Size: 2 * types.MiB, ModTime: time.Unix(1700000000, 0)},
		{Path: "/dl/show/extras/a b.nfo", RelPath: "extras/a b.nfo", Size: 512},
	})
	return &Result{
		TorrentName: "show",
		TorrentID:   "magnet:?xt=urn:btih:abc",
		Directory:   "/dl/show",
		Files:       files,
		TotalFiles:  len(files),
	}
}

func render(t *testing.T, name string, r *Result) string {
	t.Helper()
	f, err := Get(name)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, r))
	return buf.String()
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"json", "null", "paths", "plain", "pretty", "yaml"}, Available())

	_, err := Get("xml")
	assert.Error(t, err)

	reg := NewRegistry()
	reg.Register("paths", func() Formatter { return &PathsFormatter{} })
	assert.Equal(t, []string{"paths"}, reg.Available())
}

func TestNewFiles(t *testing.T) {
	files := sampleResult().Files
	require.Len(t, files, 2)
	assert.Equal(t, "2.0 MiB", files[0].SizeHuman)
	assert.Equal(t, "extras/a b.nfo", files[1].RelPath)
	assert.Equal(t, int64(2*types.MiB+512), sampleResult().TotalSize())
}

func TestNewDeletionSummary(t *testing.T) {
	assert.Nil(t, NewDeletionSummary(nil))

	s := NewDeletionSummary(&cleanup.Report{
		Deleted:    []string{"/dl/a"},
		Failed:     []cleanup.PathError{{Path: "/dl/b", Err: errors.New("denied")}},
		PrunedDirs: []string{"/dl/x"},
	})
	assert.Equal(t, []string{"/dl/a"}, s.Deleted)
	assert.Equal(t, []FailedFile{{Path: "/dl/b", Error: "denied"}}, s.Failed)
	assert.Equal(t, []string{"/dl/x"}, s.PrunedDirs)
}

func TestPathsAndNull(t *testing.T) {
	r := sampleResult()
	assert.Equal(t, "/dl/show/sample.mkv\n/dl/show/extras/a b.nfo\n", render(t, "paths", r))
	assert.Equal(t, "/dl/show/sample.mkv\x00/dl/show/extras/a b.nfo\x00", render(t, "null", r))
	assert.Empty(t, render(t, "paths", &Result{}))
}

func TestPlain(t *testing.T) {
	out := render(t, "plain", sampleResult())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "SIZE"))
	assert.Contains(t, lines[1], "2.0 MiB")
	assert.Contains(t, lines[2], "/dl/show/extras/a b.nfo")
}

func TestJSON(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(render(t, "json", sampleResult())), &doc))

	assert.Equal(t, "show", doc["torrent_name"])
	assert.Equal(t, float64(2*types.MiB+512), doc["total_size"])
	assert.Len(t, doc["files"], 2)
	assert.NotContains(t, doc, "deletion")

	var empty map[string]any
	require.NoError(t, json.Unmarshal([]byte(render(t, "json", &Result{})), &empty))
	assert.Equal(t, []any{}, empty["files"])
}

func TestYAML(t *testing.T) {
	r := sampleResult()
	r.Deletion = &DeletionSummary{Deleted: []string{"/dl/show/sample.mkv"}}

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(render(t, "yaml", r)), &doc))

	assert.Equal(t, "/dl/show", doc["directory"])
	assert.Equal(t, 2, doc["total_files"])
	deletion, ok := doc["deletion"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"/dl/show/sample.mkv"}, deletion["deleted"])
}

func TestPretty(t *testing.T) {
	r := sampleResult()
	r.DryRun = true
	r.TotalFiles = 5
	r.Warnings = []string{"cannot read /dl/show/locked"}
	r.Deletion = &DeletionSummary{
		Deleted: []string{"/dl/show/sample.mkv"},
		Failed:  []FailedFile{{Path: "/dl/show/x", Error: "busy"}},
	}

	out := render(t, "pretty", r)
	for _, want := range []string{
		"show", "/dl/show", "Dry run", "sample.mkv", "extras/a b.nfo",
		"3 not shown", "Deleted 1 file(s)", "busy", "cannot read /dl/show/locked",
	} {
		assert.Contains(t, out, want)
	}
}

func TestPretty_NoFiles(t *testing.T) {
	out := render(t, "pretty", &Result{TorrentName: "t", Directory: "/d"})
	assert.Contains(t, out, "No extra files")
}
