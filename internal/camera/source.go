package camera

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Frame is one captured image. Owned by the loop until submitted, then
// dropped.
type Frame struct {
	Data    []byte
	TakenAt time.Time
}

// FrameSource yields frames. The camera driver itself is out of scope; the
// shipped implementation replays encoded frames from a directory.
type FrameSource interface {
	Next(ctx context.Context) (Frame, error)
}

// DirSource cycles through the JPEG files of a directory in name order.
type DirSource struct {
	mu    sync.Mutex
	files []string
	idx   int
}

func NewDirSource(dir string) (*DirSource, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.jpg"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .jpg frames in %s", dir)
	}
	sort.Strings(files)
	return &DirSource{files: files}, nil
}

func (s *DirSource) Next(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	s.mu.Lock()
	file := s.files[s.idx]
	s.idx = (s.idx + 1) % len(s.files)
	s.mu.Unlock()

	data, err := os.ReadFile(file)
	if err != nil {
		return Frame{}, fmt.Errorf("read frame %s: %w", file, err)
	}
	return Frame{Data: data, TakenAt: time.Now()}, nil
}
