package torrent

import (
	"context"
	"io"
	"sync"

	"github.com/anacrolix/torrent/metainfo"
	"github.com/anacrolix/torrent/storage"
)

// memoryStorage keeps piece data in memory so that resolving metadata never
// writes to disk. Pieces are allocated on first write.
type memoryStorage struct{}

func newMemoryStorage() storage.ClientImpl {
	return memoryStorage{}
}

func (memoryStorage) OpenTorrent(_ context.Context, info *metainfo.Info, _ metainfo.Hash) (storage.TorrentImpl, error) {
	t := &memoryTorrent{
		pieceLength: info.PieceLength,
		pieces:      make(map[int]*memoryPiece),
	}
	return storage.TorrentImpl{
		Piece: t.piece,
		Close: t.close,
	}, nil
}

type memoryTorrent struct {
	mu          sync.Mutex
	pieceLength int64
	pieces      map[int]*memoryPiece
}

func (t *memoryTorrent) piece(p metainfo.Piece) storage.PieceImpl {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := p.Index()
	mp, ok := t.pieces[idx]
	if !ok {
		mp = &memoryPiece{length: p.Length()}
		t.pieces[idx] = mp
	}
	return mp
}

func (t *memoryTorrent) close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pieces = make(map[int]*memoryPiece)
	return nil
}

type memoryPiece struct {
	mu       sync.RWMutex
	length   int64
	data     []byte
	complete bool
}

func (p *memoryPiece) ReadAt(b []byte, off int64) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if off >= int64(len(p.data)) {
		return 0, io.EOF
	}
	n := copy(b, p.data[off:])
	if n < len(b) {
		return n, io.EOF
	}
	return n, nil
}

func (p *memoryPiece) WriteAt(b []byte, off int64) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if off+int64(len(b)) > p.length {
		return 0, io.ErrShortWrite
	}
	if p.data == nil {
		p.data = make([]byte, p.length)
	}
	return copy(p.data[off:], b), nil
}

func (p *memoryPiece) MarkComplete() error {
	p.mu.Lock()
	p.complete = true
	p.mu.Unlock()
	return nil
}

func (p *memoryPiece) MarkNotComplete() error {
	p.mu.Lock()
	p.complete = false
	p.mu.Unlock()
	return nil
}

func (p *memoryPiece) Completion() storage.Completion {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return storage.Completion{Complete: p.complete, Ok: true}
}
