package capture

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	defaultFileMode = 0644
	defaultDirMode  = 0755
)

type entry struct {
	Seq      uint64          `json:"seq"`
	Received time.Time       `json:"received"`
	Frame    json.RawMessage `json:"frame"`
}

// Capture is a durable append-only record of the raw wire frames a
// session received, one JSON entry per line. Its job is faithful replay
// for demos and postmortems, so frames are stored verbatim, before
// classification has a chance to reject them.
type Capture struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	nextSeq uint64
}

// Open creates or opens a capture file at path. Existing entries are
// scanned to continue the sequence; a partially written trailing line
// from a crashed run is dropped so new appends start on a clean line.
func Open(path string) (*Capture, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("capture: path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), defaultDirMode); err != nil {
		return nil, fmt.Errorf("capture: mkdir: %w", err)
	}

	maxSeq, err := compact(path)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_RDWR, defaultFileMode)
	if err != nil {
		return nil, fmt.Errorf("capture: open: %w", err)
	}

	return &Capture{
		path:    path,
		file:    f,
		nextSeq: maxSeq + 1,
	}, nil
}

// Append persists one raw frame. Frames that are not valid JSON are
// stored anyway, wrapped as a JSON string, so nothing the wire sent is
// ever lost to the record.
func (c *Capture) Append(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw := json.RawMessage(frame)
	if !json.Valid(frame) {
		quoted, err := json.Marshal(string(frame))
		if err != nil {
			return fmt.Errorf("capture: quote frame: %w", err)
		}
		raw = quoted
	}

	e := entry{
		Seq:      c.nextSeq,
		Received: time.Now().UTC(),
		Frame:    raw,
	}
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("capture: marshal entry: %w", err)
	}
	line = append(line, '\n')

	if _, err := c.file.Write(line); err != nil {
		return fmt.Errorf("capture: write entry: %w", err)
	}
	if err := c.file.Sync(); err != nil {
		return fmt.Errorf("capture: sync entry: %w", err)
	}
	c.nextSeq++
	return nil
}

// Replay calls fn for each captured frame in sequence order. Replay
// stops cleanly at a torn or malformed trailing line.
func (c *Capture) Replay(fn func(seq uint64, received time.Time, frame []byte) error) error {
	if fn == nil {
		return errors.New("capture: replay callback is nil")
	}

	c.mu.Lock()
	path := c.path
	c.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("capture: open for replay: %w", err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("capture: replay read: %w", err)
		}
		if len(line) == 0 {
			if errors.Is(err, io.EOF) {
				return nil
			}
			continue
		}
		if !strings.HasSuffix(string(line), "\n") {
			// Ignore a potentially partial trailing line.
			return nil
		}

		var e entry
		if uerr := json.Unmarshal(line, &e); uerr != nil {
			// Stop at the first malformed line and keep replay deterministic.
			return nil
		}
		if rerr := fn(e.Seq, e.Received, e.Frame); rerr != nil {
			return rerr
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

// Close closes the underlying capture file.
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}

// compact rewrites the capture file keeping only whole valid lines, so a
// torn tail from a crash cannot merge with the next append.
func compact(path string) (uint64, error) {
	src, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, defaultFileMode)
	if err != nil {
		return 0, fmt.Errorf("capture: open source for compact: %w", err)
	}
	defer src.Close()

	tmpPath := path + ".compact"
	dst, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_RDWR, defaultFileMode)
	if err != nil {
		return 0, fmt.Errorf("capture: open compact tmp: %w", err)
	}

	reader := bufio.NewReader(src)
	var maxSeq uint64

	for {
		line, rerr := reader.ReadBytes('\n')
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			_ = dst.Close()
			_ = os.Remove(tmpPath)
			return 0, fmt.Errorf("capture: compact read: %w", rerr)
		}
		if len(line) == 0 || !strings.HasSuffix(string(line), "\n") {
			break
		}

		var e entry
		if uerr := json.Unmarshal(line, &e); uerr != nil {
			break
		}
		if e.Seq > maxSeq {
			maxSeq = e.Seq
		}
		if _, werr := dst.Write(line); werr != nil {
			_ = dst.Close()
			_ = os.Remove(tmpPath)
			return 0, fmt.Errorf("capture: compact write: %w", werr)
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
	}

	if err := dst.Sync(); err != nil {
		_ = dst.Close()
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("capture: compact sync: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("capture: compact close: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("capture: compact rename: %w", err)
	}
	return maxSeq, nil
}
