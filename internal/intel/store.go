package intel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("entry not found")
	ErrDuplicate = errors.New("entry already exists")
)

const (
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// HistoryRecord is one line of the append-only change log.
type HistoryRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Author    string    `json:"author"`
	EntryID   string    `json:"entry_id"`
	PointName string    `json:"point_name"`
	Data      Entry     `json:"data"`
	OldData   *Entry    `json:"old_data,omitempty"`
}

// Store keeps entries and their history in memory. All methods are safe for
// concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
	history []HistoryRecord

	maxHistory int
	now        func() time.Time
	newID      func() string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		entries:    make(map[string]Entry),
		maxHistory: 1000,
		now:        time.Now,
		newID:      func() string { return uuid.NewString() },
	}
}

// Create validates, normalizes and stores a new entry. An entry with the
// same point name, period and counterparty is rejected as a duplicate.
func (s *Store) Create(e Entry) (Entry, error) {
	e.Normalize()
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id := s.findDuplicateLocked(e, ""); id != "" {
		return Entry{}, fmt.Errorf("%w: %s / %s / %s", ErrDuplicate, e.PointName, e.Period, e.Counterparty)
	}

	now := s.now()
	e.ID = s.newID()
	e.CreatedAt = now
	e.UpdatedAt = now
	s.entries[e.ID] = e

	s.appendHistoryLocked(HistoryRecord{
		Timestamp: now,
		Action:    ActionCreate,
		Author:    e.Author,
		EntryID:   e.ID,
		PointName: e.PointName,
		Data:      e,
	})
	return e, nil
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

// Update replaces the stored entry, keeping its identity and creation time.
func (s *Store) Update(id string, e Entry) (Entry, error) {
	e.Normalize()
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.entries[id]
	if !ok {
		return Entry{}, ErrNotFound
	}
	if dup := s.findDuplicateLocked(e, id); dup != "" {
		return Entry{}, fmt.Errorf("%w: %s / %s / %s", ErrDuplicate, e.PointName, e.Period, e.Counterparty)
	}

	e.ID = old.ID
	e.CreatedAt = old.CreatedAt
	e.UpdatedAt = s.now()
	s.entries[id] = e

	oldCopy := old
	s.appendHistoryLocked(HistoryRecord{
		Timestamp: e.UpdatedAt,
		Action:    ActionEdit,
		Author:    e.Author,
		EntryID:   id,
		PointName: e.PointName,
		Data:      e,
		OldData:   &oldCopy,
	})
	return e, nil
}

// Delete removes an entry and logs who removed it.
func (s *Store) Delete(id, author string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.entries[id]
	if !ok {
		return Entry{}, ErrNotFound
	}
	delete(s.entries, id)

	s.appendHistoryLocked(HistoryRecord{
		Timestamp: s.now(),
		Action:    ActionDelete,
		Author:    author,
		EntryID:   id,
		PointName: old.PointName,
		Data:      old,
	})
	return old, nil
}

// List returns entries passing the filter, newest first, ties broken by id.
func (s *Store) List(f Filter) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Counterparties returns the distinct counterparties present, sorted.
func (s *Store) Counterparties() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, e := range s.entries {
		seen[e.Counterparty] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// TagsInUse returns every tag referenced by a stored entry, sorted.
func (s *Store) TagsInUse() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, e := range s.entries {
		for _, t := range e.Tags {
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// History returns the most recent change records, newest first, up to limit
// (limit <= 0 means all).
func (s *Store) History(limit int) []HistoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]HistoryRecord, len(s.history))
	copy(out, s.history)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ExportCSV writes a snapshot of all entries, newest first.
func (s *Store) ExportCSV(w io.Writer) error {
	entries := s.List(Filter{})

	cw := csv.NewWriter(w)
	header := []string{
		"id", "author", "counterparty", "country", "point_type", "point_name",
		"period", "info", "capacity_value", "capacity_unit", "volume_value",
		"volume_unit", "tags", "created_at", "updated_at",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			e.ID, e.Author, e.Counterparty, e.Country, e.PointType, e.PointName,
			e.Period, e.Info,
			measurementValue(e.Capacity), measurementUnit(e.Capacity),
			measurementValue(e.Volume), measurementUnit(e.Volume),
			strings.Join(e.Tags, ","),
			e.CreatedAt.UTC().Format(time.RFC3339),
			e.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func measurementValue(m *Measurement) string {
	if m == nil {
		return ""
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

func measurementUnit(m *Measurement) string {
	if m == nil {
		return ""
	}
	return m.Unit
}

func (s *Store) findDuplicateLocked(e Entry, excludeID string) string {
	for id, existing := range s.entries {
		if id == excludeID {
			continue
		}
		if existing.PointName == e.PointName &&
			existing.Period == e.Period &&
			strings.EqualFold(existing.Counterparty, e.Counterparty) {
			return id
		}
	}
	return ""
}

func (s *Store) appendHistoryLocked(rec HistoryRecord) {
	s.history = append(s.history, rec)
	if s.maxHistory > 0 && len(s.history) > s.maxHistory {
		s.history = s.history[len(s.history)-s.maxHistory:]
	}
}
