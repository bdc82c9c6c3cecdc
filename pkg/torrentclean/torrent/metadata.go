package torrent

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/anacrolix/torrent/metainfo"
)

// ErrResolve is matched by every error returned by a Resolver.
var ErrResolve = errors.New("cannot resolve torrent")

// ResolveError reports a failed resolution.
type ResolveError struct {
	ID  string
	Err error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("cannot resolve torrent %s: %v", e.ID, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrResolve) hold for every ResolveError.
func (e *ResolveError) Is(target error) bool {
	return target == ErrResolve
}

func resolveErr(id ID, err error) error {
	return &ResolveError{ID: id.String(), Err: err}
}

// Metadata describes the content a torrent declares.
type Metadata struct {
	// Name is the torrent's root name.
	Name string

	// InfoHash is the hex v1 info hash, when known.
	InfoHash string

	// Files are slash-separated paths relative to the torrent root. A
	// single-file torrent lists its name.
	Files []string

	// Size is the total declared length in bytes.
	Size int64
}

// FromInfo builds Metadata from a decoded info dictionary.
func FromInfo(info *metainfo.Info, infoHash string) (*Metadata, error) {
	name := info.BestName()
	if name == "" {
		return nil, errors.New("torrent has no name")
	}

	meta := &Metadata{
		Name:     name,
		InfoHash: infoHash,
	}

	for _, f := range info.UpvertedFiles() {
		meta.Size += f.Length

		p := f.DisplayPath(info)
		if !info.IsDir() {
			p = name
		}
		p = cleanDeclaredPath(p)
		if p == "" {
			continue
		}
		meta.Files = append(meta.Files, p)
	}

	return meta, nil
}

// cleanDeclaredPath normalizes a declared path and drops ones that would
// escape the torrent root.
func cleanDeclaredPath(p string) string {
	p = path.Clean("/" + p)
	p = strings.TrimPrefix(p, "/")
	if p == "." {
		return ""
	}
	return p
}

// FromMetaInfo decodes the info dictionary of mi.
func FromMetaInfo(mi *metainfo.MetaInfo) (*Metadata, error) {
	info, err := mi.UnmarshalInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal torrent info: %w", err)
	}
	return FromInfo(&info, mi.HashInfoBytes().HexString())
}

// FromBytes parses .torrent content.
func FromBytes(data []byte) (*Metadata, error) {
	mi, err := metainfo.Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse torrent metainfo: %w", err)
	}
	return FromMetaInfo(mi)
}
