// Package wire is the message format spoken between the engine and its worker
// processes: newline-delimited JSON frames over the child's stdin and stdout.
package wire

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ReadyID is the frame ID a worker uses to announce it is ready for work.
// Task request IDs start at 1.
const ReadyID uint64 = 0

// MaxFrameSize bounds a single frame. Chunks larger than this have to be
// split by using more workers.
const MaxFrameSize = 256 << 20

var ErrFrameTooLarge = errors.New("wire: frame exceeds maximum size")

// Request asks a worker to run one registered task.
type Request struct {
	ID   uint64          `json:"id"`
	Task string          `json:"task"`
	Args json.RawMessage `json:"args,omitempty"`
}

// Response carries either the encoded task result or the task error message.
// The ready frame sets Ready and PID and carries no result.
type Response struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
	Ready  bool            `json:"ready,omitempty"`
	PID    int             `json:"pid,omitempty"`
}

// ChunkArgs is the argument payload of an extended task: one chunk of the
// input plus the caller's extra named arguments, if any.
type ChunkArgs struct {
	Data json.RawMessage            `json:"data"`
	Args map[string]json.RawMessage `json:"args,omitempty"`
}

// Encoder writes frames. It is safe for concurrent use.
type Encoder struct {
	mu    sync.Mutex
	w     *bufio.Writer
	limit int
}

func NewEncoder(w io.Writer) *Encoder {
	return NewEncoderLimit(w, MaxFrameSize)
}

// NewEncoderLimit returns an encoder that refuses frames longer than limit
// bytes. Nothing is written for a refused frame, so the stream stays usable.
func NewEncoderLimit(w io.Writer, limit int) *Encoder {
	if limit <= 0 || limit > MaxFrameSize {
		limit = MaxFrameSize
	}
	return &Encoder{w: bufio.NewWriter(w), limit: limit}
}

// Encode marshals v as one line and flushes it.
func (e *Encoder) Encode(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("wire: marshal frame: %w", err)
	}
	if len(b) > e.limit {
		return ErrFrameTooLarge
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.w.Write(b); err != nil {
		return err
	}
	if err := e.w.WriteByte('\n'); err != nil {
		return err
	}
	return e.w.Flush()
}

// Decoder reads frames written by an Encoder. It is not safe for concurrent
// use; each pipe has exactly one reader.
type Decoder struct {
	s *bufio.Scanner
}

func NewDecoder(r io.Reader) *Decoder {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), MaxFrameSize+1)
	return &Decoder{s: s}
}

// Decode reads the next frame into v. It returns io.EOF when the stream ends
// cleanly between frames.
func (d *Decoder) Decode(v any) error {
	for d.s.Scan() {
		line := d.s.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := json.Unmarshal(line, v); err != nil {
			return fmt.Errorf("wire: unmarshal frame: %w", err)
		}
		return nil
	}

	if err := d.s.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return ErrFrameTooLarge
		}
		return err
	}
	return io.EOF
}
