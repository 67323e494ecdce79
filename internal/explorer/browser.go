// Package explorer implements the path browser used to pick a directory.
//
// A Browser is owned by a single goroutine. Listings are not performed
// inline: navigation returns a ListCmd which the owner runs wherever it
// likes and feeds back through Apply. Only the result of the most recent
// navigation is ever applied.
package explorer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/filemanager/filemanager/internal/fsapi"
)

// Separator joins path segments in browser paths.
const Separator = "/"

// ListCmd performs a listing requested by the browser.
type ListCmd func(ctx context.Context) Listing

// Listing is the outcome of a ListCmd.
type Listing struct {
	Seq     uint64
	Path    string
	Entries []fsapi.DirectoryEntry
	Err     error
}

// ListingError is a failed listing for Path.
type ListingError struct {
	Path string
	Err  error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("list %q: %v", e.Path, e.Err)
}

func (e *ListingError) Unwrap() error {
	return e.Err
}

type EventKind int

const (
	EventSelected EventKind = iota + 1
	EventCancelled
)

// Event is what the browser reports to its owner.
type Event struct {
	Kind EventKind
	Path string
}

// Browser is a navigable view of a directory tree.
type Browser struct {
	lister fsapi.Lister

	currentPath string
	entries     []fsapi.DirectoryEntry
	err         error
	loading     bool
	open        bool
	seq         uint64
}

func NewBrowser(lister fsapi.Lister) *Browser {
	return &Browser{lister: lister}
}

// Open resets the browser to path and returns the listing for it.
func (b *Browser) Open(path string) ListCmd {
	b.open = true
	b.currentPath = path
	b.entries = nil
	b.err = nil
	b.loading = true
	b.seq++

	seq := b.seq
	lister := b.lister
	return func(ctx context.Context) Listing {
		entries, err := lister.List(ctx, path)
		return Listing{Seq: seq, Path: path, Entries: entries, Err: err}
	}
}

// NavigateInto opens the child directory named by entry.
// It returns nil when entry is not a directory.
func (b *Browser) NavigateInto(entry fsapi.DirectoryEntry) ListCmd {
	if !entry.IsDirectory {
		return nil
	}
	return b.Open(JoinPath(b.currentPath, entry.Name))
}

// NavigateUp opens the parent of the current path. A top-level path goes
// back to the root; at the root it returns nil.
func (b *Browser) NavigateUp() ListCmd {
	parent, ok := ParentPath(b.currentPath)
	if !ok {
		return nil
	}
	return b.Open(parent)
}

// Select reports path as the chosen value. The browser stays open until
// its owner closes it.
func (b *Browser) Select(path string) Event {
	return Event{Kind: EventSelected, Path: path}
}

// Cancel reports that the user closed the browser without choosing.
func (b *Browser) Cancel() Event {
	return Event{Kind: EventCancelled}
}

// Close marks the browser closed. Listings still in flight are dropped
// when they arrive.
func (b *Browser) Close() {
	b.open = false
	b.loading = false
}

// Apply stores a listing if it answers the latest navigation. It reports
// whether the listing was applied.
func (b *Browser) Apply(l Listing) bool {
	if !b.open || l.Seq != b.seq || l.Path != b.currentPath {
		slog.Debug("explorer stale listing", "path", l.Path, "current", b.currentPath, "open", b.open)
		return false
	}

	b.loading = false
	if l.Err != nil {
		b.entries = nil
		b.err = &ListingError{Path: l.Path, Err: l.Err}
		slog.Warn("explorer listing failed", "path", l.Path, "error", l.Err)
		return true
	}

	b.entries = l.Entries
	b.err = nil
	return true
}

// Load runs cmd inline and applies its result.
func (b *Browser) Load(ctx context.Context, cmd ListCmd) bool {
	if cmd == nil {
		return false
	}
	return b.Apply(cmd(ctx))
}

func (b *Browser) CurrentPath() string { return b.currentPath }

func (b *Browser) Entries() []fsapi.DirectoryEntry { return b.entries }

// Err is the listing error for the current path, if any.
func (b *Browser) Err() error { return b.err }

func (b *Browser) Loading() bool { return b.loading }

func (b *Browser) IsOpen() bool { return b.open }

// JoinPath builds the path of name inside parent. The root is the empty path.
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return strings.TrimSuffix(parent, Separator) + Separator + name
}

// ParentPath truncates p at its last separator. A path without one has the
// root as its parent. ok is false only for the root itself.
func ParentPath(p string) (parent string, ok bool) {
	if p == "" {
		return "", false
	}
	idx := strings.LastIndex(p, Separator)
	if idx < 0 {
		return "", true
	}
	return p[:idx], true
}
