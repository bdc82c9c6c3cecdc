// Package torrent resolves torrent identifiers to the list of files the
// torrent declares. Descriptors available locally are decoded without
// touching the network; magnet links and bare info hashes are resolved over
// the BitTorrent network with an in-memory piece store.
package torrent

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/anacrolix/torrent/metainfo"
)

// Kind classifies a torrent identifier.
type Kind int

// Identifier kinds.
const (
	KindNone Kind = iota
	KindMagnet
	KindInfoHash
	KindFile
	KindBytes
	KindMetaInfo
)

func (k Kind) String() string {
	switch k {
	case KindMagnet:
		return "magnet"
	case KindInfoHash:
		return "info-hash"
	case KindFile:
		return "file"
	case KindBytes:
		return "bytes"
	case KindMetaInfo:
		return "metainfo"
	default:
		return "none"
	}
}

// ID identifies a torrent: a magnet URI, a hex info hash, a path to a
// .torrent file, raw .torrent content or an already parsed descriptor.
// The zero ID identifies nothing.
type ID struct {
	text string
	data []byte
	mi   *metainfo.MetaInfo
}

// StringID wraps a magnet URI, info hash or .torrent path.
func StringID(s string) ID {
	return ID{text: strings.TrimSpace(s)}
}

// BytesID wraps the content of a .torrent file.
func BytesID(data []byte) ID {
	return ID{data: data}
}

// MetaInfoID wraps a parsed descriptor.
func MetaInfoID(mi *metainfo.MetaInfo) ID {
	return ID{mi: mi}
}

// IsZero reports whether id identifies nothing.
func (id ID) IsZero() bool {
	return id.text == "" && id.data == nil && id.mi == nil
}

// Text returns the string form of id. Only string identifiers can be
// remembered in a config file.
func (id ID) Text() (string, bool) {
	return id.text, id.text != ""
}

// Kind classifies id.
func (id ID) Kind() Kind {
	switch {
	case id.mi != nil:
		return KindMetaInfo
	case id.data != nil:
		return KindBytes
	case id.text == "":
		return KindNone
	case strings.HasPrefix(strings.ToLower(id.text), "magnet:"):
		return KindMagnet
	case isInfoHash(id.text):
		return KindInfoHash
	default:
		return KindFile
	}
}

// String returns a short human readable form of id.
func (id ID) String() string {
	switch id.Kind() {
	case KindBytes:
		return fmt.Sprintf("<%d bytes of torrent data>", len(id.data))
	case KindMetaInfo:
		return "<parsed torrent " + id.mi.HashInfoBytes().HexString() + ">"
	default:
		return id.text
	}
}

// isInfoHash reports whether s is a v1 (40 hex digits) or v2 (64 hex
// digits) info hash.
func isInfoHash(s string) bool {
	if len(s) != 40 && len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
