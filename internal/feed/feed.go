// Package feed provides the append-only activity log shared by all
// users. The log is an explicitly constructed dependency injected into
// the components that append to or read it; there is no package-level
// shared state.
package feed

import (
	"log/slog"
	"sync"

	"github.com/phrazzld/ledger-api/internal/domain"
)

// EntryKind discriminates the two kinds of feed entries.
type EntryKind string

const (
	// KindPayment marks an entry carrying a structured payment record.
	KindPayment EntryKind = "payment"

	// KindAnnouncement marks an entry carrying plain announcement text,
	// such as a friendship notice.
	KindAnnouncement EntryKind = "announcement"
)

// Entry is a tagged variant over the two feed entry kinds. Exactly one
// of Payment and Announcement is populated, according to Kind.
type Entry struct {
	Kind         EntryKind       `json:"kind"`
	Payment      *domain.Payment `json:"payment,omitempty"`
	Announcement string          `json:"announcement,omitempty"`
}

// PaymentEntry wraps a payment record as a feed entry.
func PaymentEntry(payment *domain.Payment) Entry {
	return Entry{Kind: KindPayment, Payment: payment}
}

// AnnouncementEntry wraps announcement text as a feed entry.
func AnnouncementEntry(text string) Entry {
	return Entry{Kind: KindAnnouncement, Announcement: text}
}

// Log is the process-wide activity feed. Entries are appended in
// insertion order and never mutated or removed. The log is safe for
// concurrent use.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	logger  *slog.Logger
}

// NewLog creates a new empty Log.
func NewLog(logger *slog.Logger) *Log {
	return &Log{
		entries: make([]Entry, 0),
		logger:  logger.With("component", "feed_log"),
	}
}

// Append adds an entry to the end of the log.
func (l *Log) Append(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	l.logger.Debug("feed entry appended",
		"kind", entry.Kind,
		"entry_count", len(l.entries))
}

// Entries returns a copy of the log in insertion order. Mutating the
// returned slice does not affect the log.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entries := make([]Entry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// Len returns the number of entries in the log.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
