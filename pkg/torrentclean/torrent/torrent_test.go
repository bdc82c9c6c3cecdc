package torrent

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	anacrolix "github.com/anacrolix/torrent"
	"github.com/anacrolix/torrent/bencode"
	"github.com/anacrolix/torrent/metainfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTorrent(t *testing.T, info metainfo.Info) []byte {
	t.Helper()

	if info.PieceLength == 0 {
		info.PieceLength = 16 * 1024
	}
	if info.Pieces == nil {
		info.Pieces = make([]byte, 20)
	}

	mi := metainfo.MetaInfo{InfoBytes: bencode.MustMarshal(info)}

	var buf bytes.Buffer
	require.NoError(t, mi.Write(&buf))
	return buf.Bytes()
}

func multiFile(t *testing.T) []byte {
	return buildTorrent(t, metainfo.Info{
		Name: "images",
		Files: []metainfo.FileInfo{
			{Length: 3, Path: []string{"set1", "image1.jpg"}},
			{Length: 5, Path: []string{"set2", "image2.jpg"}},
		},
	})
}

func TestIDKind(t *testing.T) {
	tests := []struct {
		id   ID
		want Kind
	}{
		{ID{}, KindNone},
		{StringID("  "), KindNone},
		{StringID("magnet:?xt=urn:btih:0123456789abcdef0123456789abcdef01234567"), KindMagnet},
		{StringID("MAGNET:?xt=urn:btih:x"), KindMagnet},
		{StringID("0123456789abcdef0123456789abcdef01234567"), KindInfoHash},
		{StringID("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"), KindInfoHash},
		{StringID("0123456789abcdef0123456789abcdef0123456z"), KindFile},
		{StringID("./ubuntu.torrent"), KindFile},
		{BytesID([]byte("d4:infodee")), KindBytes},
		{MetaInfoID(&metainfo.MetaInfo{}), KindMetaInfo},
	}

	for _, tt := range tests {
		t.Run(tt.want.String()+"/"+tt.id.text, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.Kind())
		})
	}
}

func TestIDText(t *testing.T) {
	s, ok := StringID(" magnet:?xt=urn:btih:abc ").Text()
	assert.True(t, ok)
	assert.Equal(t, "magnet:?xt=urn:btih:abc", s)

	_, ok = BytesID([]byte("x")).Text()
	assert.False(t, ok)

	assert.True(t, ID{}.IsZero())
	assert.False(t, BytesID([]byte{}).IsZero())
	assert.Equal(t, "<3 bytes of torrent data>", BytesID([]byte("abc")).String())
}

func TestFromBytes_MultiFile(t *testing.T) {
	meta, err := FromBytes(multiFile(t))
	require.NoError(t, err)

	assert.Equal(t, "images", meta.Name)
	assert.Equal(t, []string{"set1/image1.jpg", "set2/image2.jpg"}, meta.Files)
	assert.Equal(t, int64(8), meta.Size)
	assert.Len(t, meta.InfoHash, 40)
}

func TestFromBytes_SingleFile(t *testing.T) {
	data := buildTorrent(t, metainfo.Info{Name: "movie.mkv", Length: 42})

	meta, err := FromBytes(data)
	require.NoError(t, err)

	assert.Equal(t, "movie.mkv", meta.Name)
	assert.Equal(t, []string{"movie.mkv"}, meta.Files)
	assert.Equal(t, int64(42), meta.Size)
}

func TestFromBytes_DropsEscapingPaths(t *testing.T) {
	data := buildTorrent(t, metainfo.Info{
		Name: "root",
		Files: []metainfo.FileInfo{
			{Length: 1, Path: []string{"..", "..", "etc", "passwd"}},
			{Length: 1, Path: []string{"ok.txt"}},
		},
	})

	meta, err := FromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"etc/passwd", "ok.txt"}, meta.Files)
}

func TestFromBytes_Invalid(t *testing.T) {
	_, err := FromBytes([]byte("not bencode"))
	assert.Error(t, err)
}

func TestClient_ResolveLocalForms(t *testing.T) {
	data := multiFile(t)
	path := filepath.Join(t.TempDir(), "images.torrent")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	mi, err := metainfo.Load(bytes.NewReader(data))
	require.NoError(t, err)

	ids := map[string]ID{
		"path":     StringID(path),
		"bytes":    BytesID(data),
		"metainfo": MetaInfoID(mi),
	}

	c := NewClient()
	for name, id := range ids {
		t.Run(name, func(t *testing.T) {
			meta, err := c.Resolve(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, "images", meta.Name)
			assert.Equal(t, []string{"set1/image1.jpg", "set2/image2.jpg"}, meta.Files)
		})
	}
}

func TestClient_ResolveErrors(t *testing.T) {
	c := &Client{ReadFile: func(string) ([]byte, error) { return nil, os.ErrNotExist }}

	_, err := c.Resolve(context.Background(), StringID("missing.torrent"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResolve)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var rerr *ResolveError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "missing.torrent", rerr.ID)

	_, err = c.Resolve(context.Background(), ID{})
	assert.ErrorIs(t, err, ErrResolve)

	_, err = c.Resolve(context.Background(), BytesID([]byte("garbage")))
	assert.ErrorIs(t, err, ErrResolve)
}

func TestClient_NetworkHonorsContext(t *testing.T) {
	c := &Client{NewConfig: func() *anacrolix.ClientConfig {
		cfg := anacrolix.NewDefaultClientConfig()
		cfg.ListenPort = 0
		cfg.NoDHT = true
		cfg.DisableTrackers = true
		cfg.DataDir = t.TempDir()
		return cfg
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Resolve(ctx, StringID("0123456789abcdef0123456789abcdef01234567"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResolve)
	assert.ErrorIs(t, err, context.Canceled)
}

type resolverFunc func(ctx context.Context, id ID) (*Metadata, error)

func (f resolverFunc) Resolve(ctx context.Context, id ID) (*Metadata, error) {
	return f(ctx, id)
}

func TestWithTimeout(t *testing.T) {
	blocking := resolverFunc(func(ctx context.Context, _ ID) (*Metadata, error) {
		<-ctx.Done()
		return nil, errors.New("peer lookup stopped")
	})

	_, err := WithTimeout(blocking, 10*time.Millisecond).Resolve(context.Background(), StringID("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "peer lookup stopped")

	var sawDeadline bool
	quick := resolverFunc(func(ctx context.Context, _ ID) (*Metadata, error) {
		_, sawDeadline = ctx.Deadline()
		return &Metadata{Name: "ok"}, nil
	})
	meta, err := WithTimeout(quick, time.Minute).Resolve(context.Background(), StringID("x"))
	require.NoError(t, err)
	assert.Equal(t, "ok", meta.Name)
	assert.True(t, sawDeadline)

	_, wrapped := WithTimeout(quick, 0).(*timeoutResolver)
	assert.False(t, wrapped)
}

func TestMemoryPiece(t *testing.T) {
	p := &memoryPiece{length: 8}

	n, err := p.ReadAt(make([]byte, 4), 0)
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, io.EOF)

	n, err = p.WriteAt([]byte("abcd"), 2)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	buf := make([]byte, 4)
	n, err = p.ReadAt(buf, 2)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(buf[:n]))

	_, err = p.WriteAt([]byte("toolong!!"), 0)
	assert.Error(t, err)

	assert.False(t, p.Completion().Complete)
	require.NoError(t, p.MarkComplete())
	assert.True(t, p.Completion().Complete)
	assert.True(t, p.Completion().Ok)
	require.NoError(t, p.MarkNotComplete())
	assert.False(t, p.Completion().Complete)
}
