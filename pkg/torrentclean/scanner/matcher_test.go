package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		rel      string
		want     bool
	}{
		{"basename anywhere", []string{"Thumbs.db"}, "a/b/Thumbs.db", true},
		{"basename at root", []string{"Thumbs.db"}, "Thumbs.db", true},
		{"basename glob", []string{"*(Copy)*"}, "set2/image2 (Copy).jpg", true},
		{"double star dir", []string{"**/edited/*"}, "edited/image1.jpg", true},
		{"double star nested", []string{"**/edited/*"}, "x/y/edited/image1.jpg", true},
		{"single star does not cross dirs", []string{"edited/*"}, "x/edited/a.jpg", false},
		{"anchored relative", []string{"edited/*"}, "edited/a.jpg", true},
		{"leading slash anchors", []string{"/top.txt"}, "top.txt", true},
		{"leading dot slash", []string{"./top.txt"}, "sub/top.txt", true},
		{"no match", []string{"*.nfo"}, "movie.mkv", false},
		{"root never matches", []string{"*"}, ".", false},
		{"rc files", []string{".torrent-cleanrc*"}, "a/.torrent-cleanrc.json", true},
		{"uTorrent parts", []string{"~uTorrentPartFile*"}, "~uTorrentPartFile_2F3.dat", true},
		{"braces", []string{"*.{jpg,png}"}, "a/b.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, errs := NewMatcher(tt.patterns)
			require.Empty(t, errs)
			assert.Equal(t, tt.want, m.Match(tt.rel))
		})
	}
}

func TestMatcher_InvalidAndEmpty(t *testing.T) {
	m, errs := NewMatcher([]string{"", "  ", "[bad"})
	assert.Len(t, errs, 1)
	assert.Empty(t, m.anchored)
	assert.Empty(t, m.basename)
	assert.False(t, m.Match("anything"))

	var nilMatcher *Matcher
	assert.False(t, nilMatcher.Match("x"))
}
