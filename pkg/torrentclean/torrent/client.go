package torrent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	anacrolix "github.com/anacrolix/torrent"
	"github.com/anacrolix/torrent/metainfo"

	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/logging"
)

// Resolver turns an identifier into torrent metadata. Implementations must
// honor ctx; the caller decides how long resolution may take.
type Resolver interface {
	Resolve(ctx context.Context, id ID) (*Metadata, error)
}

// WithTimeout bounds every Resolve call made through r to d. A
// non-positive d returns r unchanged.
func WithTimeout(r Resolver, d time.Duration) Resolver {
	if d <= 0 {
		return r
	}
	return &timeoutResolver{next: r, timeout: d}
}

type timeoutResolver struct {
	next    Resolver
	timeout time.Duration
}

func (t *timeoutResolver) Resolve(ctx context.Context, id ID) (*Metadata, error) {
	tctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	meta, err := t.next.Resolve(tctx, id)
	if err != nil && tctx.Err() != nil && !errors.Is(err, tctx.Err()) {
		err = fmt.Errorf("%w (%w)", err, tctx.Err())
	}
	return meta, err
}

// Client resolves identifiers with github.com/anacrolix/torrent.
type Client struct {
	// NewConfig returns the configuration for network lookups. Nil uses
	// anacrolix defaults on a random port without seeding.
	NewConfig func() *anacrolix.ClientConfig

	// ReadFile reads .torrent files. Nil uses os.ReadFile.
	ReadFile func(name string) ([]byte, error)
}

var _ Resolver = (*Client)(nil)

// NewClient returns a Client with default settings.
func NewClient() *Client {
	return &Client{}
}

// Resolve implements Resolver.
func (c *Client) Resolve(ctx context.Context, id ID) (*Metadata, error) {
	logger := logging.Get("torrent")
	logger.Debug("resolving torrent", "id", id.String(), "kind", id.Kind().String())

	var (
		meta *Metadata
		err  error
	)

	switch id.Kind() {
	case KindNone:
		err = errors.New("empty torrent identifier")
	case KindMetaInfo:
		meta, err = FromMetaInfo(id.mi)
	case KindBytes:
		meta, err = FromBytes(id.data)
	case KindFile:
		meta, err = c.resolveFile(id.text)
	case KindMagnet, KindInfoHash:
		meta, err = c.resolveNetwork(ctx, id)
	}

	if err != nil {
		return nil, resolveErr(id, err)
	}

	logger.Debug("resolved torrent", "name", meta.Name, "files", len(meta.Files))
	return meta, nil
}

func (c *Client) resolveFile(name string) (*Metadata, error) {
	readFile := c.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}

	data, err := readFile(name)
	if err != nil {
		return nil, err
	}
	return FromBytes(data)
}

func (c *Client) config() *anacrolix.ClientConfig {
	if c.NewConfig != nil {
		return c.NewConfig()
	}

	cfg := anacrolix.NewDefaultClientConfig()
	cfg.ListenPort = 0
	cfg.Seed = false
	cfg.NoUpload = true
	return cfg
}

// resolveNetwork fetches the info dictionary from peers. Content pieces
// are never requested.
func (c *Client) resolveNetwork(ctx context.Context, id ID) (*Metadata, error) {
	cfg := c.config()
	cfg.DefaultStorage = newMemoryStorage()

	cl, err := anacrolix.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("starting torrent client: %w", err)
	}
	defer func() {
		for _, cerr := range cl.Close() {
			logging.Get("torrent").Debug("closing torrent client", "error", cerr)
		}
	}()

	t, err := addTorrent(cl, id.text)
	if err != nil {
		return nil, err
	}
	defer t.Drop()

	select {
	case <-t.GotInfo():
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for metadata: %w", ctx.Err())
	}

	return FromInfo(t.Info(), t.InfoHash().HexString())
}

func addTorrent(cl *anacrolix.Client, text string) (*anacrolix.Torrent, error) {
	if strings.HasPrefix(strings.ToLower(text), "magnet:") {
		t, err := cl.AddMagnet(text)
		if err != nil {
			return nil, fmt.Errorf("adding magnet: %w", err)
		}
		return t, nil
	}

	if len(text) == 64 {
		// v2 hashes are only addressable through a multihash magnet.
		t, err := cl.AddMagnet("magnet:?xt=urn:btmh:1220" + strings.ToLower(text))
		if err != nil {
			return nil, fmt.Errorf("adding info hash: %w", err)
		}
		return t, nil
	}

	var h metainfo.Hash
	if err := h.FromHexString(text); err != nil {
		return nil, fmt.Errorf("parsing info hash: %w", err)
	}
	t, _ := cl.AddTorrentInfoHash(h)
	return t, nil
}
