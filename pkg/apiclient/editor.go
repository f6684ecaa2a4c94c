package apiclient

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// ItemID identifies an editor entry. Unsaved entries carry a generated
// placeholder; entries that exist on the server carry the durable numeric id.
type ItemID struct {
	placeholder string
	persisted   int
}

// NewPlaceholderID mints a fresh placeholder identifier for an unsaved entry.
func NewPlaceholderID() ItemID {
	return ItemID{placeholder: "new-" + uuid.NewString()}
}

// PersistedID wraps a durable server-assigned id.
func PersistedID(id int) ItemID {
	return ItemID{persisted: id}
}

// IsPlaceholder reports whether the entry has not been saved yet.
func (id ItemID) IsPlaceholder() bool {
	return id.placeholder != ""
}

// Persisted returns the durable id and whether the entry has one.
func (id ItemID) Persisted() (int, bool) {
	if id.placeholder != "" {
		return 0, false
	}
	return id.persisted, true
}

func (id ItemID) String() string {
	if id.placeholder != "" {
		return id.placeholder
	}
	return strconv.Itoa(id.persisted)
}

// Entry is one editable slot: an identity plus the category fields being
// edited.
type Entry struct {
	ID     ItemID
	Fields map[string]any
}

// SaveOutcome classifies the result of a SaveAll pass.
type SaveOutcome int

const (
	AllSaved SaveOutcome = iota
	PartialFailure
	AllFailed
)

// SaveReport summarises a SaveAll pass. Errors is indexed by slot position;
// nil entries saved successfully.
type SaveReport struct {
	Outcome SaveOutcome
	Saved   int
	Failed  int
	Errors  []error
}

// Editor maintains an ordered working copy of one category's records and
// reconciles local edits against the server on save. It is not safe for
// concurrent use; SaveAll itself fans out internally.
type Editor struct {
	client   *Client
	category string
	entries  []Entry
}

// NewEditor creates an empty editor for the category.
func NewEditor(client *Client, category string) *Editor {
	return &Editor{client: client, category: category}
}

// Load replaces the working copy with the server's current records, in
// server order.
func (e *Editor) Load(ctx context.Context) error {
	items, err := e.client.List(ctx, e.category)
	if err != nil {
		return fmt.Errorf("load %s: %w", e.category, err)
	}
	entries := make([]Entry, 0, len(items))
	for _, it := range items {
		entries = append(entries, Entry{ID: PersistedID(it.ID), Fields: it.Fields})
	}
	e.entries = entries
	return nil
}

// Entries returns the working copy in order.
func (e *Editor) Entries() []Entry {
	return e.entries
}

// AddItem appends a new unsaved entry and returns its placeholder id.
func (e *Editor) AddItem(fields map[string]any) ItemID {
	id := NewPlaceholderID()
	e.entries = append(e.entries, Entry{ID: id, Fields: fields})
	return id
}

// SetFields replaces the fields of the entry with the given id.
func (e *Editor) SetFields(id ItemID, fields map[string]any) bool {
	for i := range e.entries {
		if e.entries[i].ID == id {
			e.entries[i].Fields = fields
			return true
		}
	}
	return false
}

// RemoveItem drops the entry with the given id. Placeholder entries are
// removed locally with no request; persisted entries are deleted on the
// server first and kept in place if the delete fails.
func (e *Editor) RemoveItem(ctx context.Context, id ItemID) error {
	idx := -1
	for i := range e.entries {
		if e.entries[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("no entry with id %s", id)
	}

	if serverID, ok := id.Persisted(); ok {
		if err := e.client.Delete(ctx, e.category, serverID); err != nil {
			return fmt.Errorf("delete %s/%d: %w", e.category, serverID, err)
		}
	}
	e.entries = append(e.entries[:idx], e.entries[idx+1:]...)
	return nil
}

// SaveAll writes every entry to the server concurrently: placeholder entries
// are created, persisted entries are updated. Slots that fail keep their
// pre-save identity and content so the pass can be retried; slots that
// succeed take the server's stored row, and created entries swap their
// placeholder for the durable id. Order is preserved throughout.
func (e *Editor) SaveAll(ctx context.Context) SaveReport {
	report := SaveReport{Errors: make([]error, len(e.entries))}
	if len(e.entries) == 0 {
		report.Outcome = AllSaved
		return report
	}

	results := make([]Entry, len(e.entries))
	var wg sync.WaitGroup
	for i := range e.entries {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry := e.entries[i]
			if serverID, ok := entry.ID.Persisted(); ok {
				item, err := e.client.Update(ctx, e.category, serverID, entry.Fields)
				if err != nil {
					report.Errors[i] = err
					return
				}
				results[i] = Entry{ID: PersistedID(item.ID), Fields: item.Fields}
				return
			}
			item, err := e.client.Create(ctx, e.category, entry.Fields)
			if err != nil {
				report.Errors[i] = err
				return
			}
			results[i] = Entry{ID: PersistedID(item.ID), Fields: item.Fields}
		}(i)
	}
	wg.Wait()

	for i := range e.entries {
		if report.Errors[i] != nil {
			report.Failed++
			continue
		}
		report.Saved++
		e.entries[i] = results[i]
	}

	switch {
	case report.Failed == 0:
		report.Outcome = AllSaved
	case report.Saved == 0:
		report.Outcome = AllFailed
	default:
		report.Outcome = PartialFailure
	}
	return report
}
