// Package utils holds small helpers shared by the server and client binaries.
package utils

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
	"time"
)

// maxPendingLine caps a partial line held between writes.
const maxPendingLine = 1024 * 1024

// LogInterceptor prefixes every line written through it with a sequence
// number and a timestamp. Partial lines are held until their newline arrives.
type LogInterceptor struct {
	mu      sync.Mutex
	target  io.Writer
	seq     uint64
	pending bytes.Buffer
	now     func() time.Time
}

func NewLogInterceptor(target io.Writer) *LogInterceptor {
	return &LogInterceptor{target: target, now: time.Now}
}

func (i *LogInterceptor) writeLine(line []byte) error {
	i.seq++
	prefix := slog.Uint64("line", i.seq).String() + " " +
		slog.String("time", i.now().Format(time.RFC3339)).String() + " "

	if _, err := io.WriteString(i.target, prefix); err != nil {
		return err
	}
	if _, err := i.target.Write(line); err != nil {
		return err
	}
	if len(line) == 0 || line[len(line)-1] != '\n' {
		_, err := i.target.Write([]byte{'\n'})
		return err
	}
	return nil
}

// Write reports len(p) on success, matching what the caller handed over
// rather than the prefixed byte count.
func (i *LogInterceptor) Write(p []byte) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.pending.Write(p)
	for {
		idx := bytes.IndexByte(i.pending.Bytes(), '\n')
		if idx < 0 {
			break
		}
		line := i.pending.Next(idx + 1)
		if err := i.writeLine(bytes.TrimRight(line, "\r\n")); err != nil {
			return 0, err
		}
	}

	if i.pending.Len() > maxPendingLine {
		if err := i.writeLine(i.pending.Bytes()); err != nil {
			return 0, err
		}
		i.pending.Reset()
	}

	return len(p), nil
}

// Close flushes a trailing partial line.
func (i *LogInterceptor) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.pending.Len() == 0 {
		return nil
	}
	err := i.writeLine(i.pending.Bytes())
	i.pending.Reset()
	return err
}
