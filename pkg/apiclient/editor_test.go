package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is an in-memory skills endpoint speaking the server's envelope.
type fakeAPI struct {
	mu      sync.Mutex
	nextID  int
	rows    map[int]map[string]any
	order   []int
	deletes []int
	// failOn returns true when a write for the given skill_name should 500
	failOn func(name string) bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{nextID: 1, rows: map[int]map[string]any{}}
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/skills", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			items := make([]map[string]any, 0, len(f.order))
			for _, id := range f.order {
				items = append(items, f.rows[id])
			}
			writeEnvelope(w, http.StatusOK, map[string]any{"success": true, "data": items, "count": len(items)})
		case http.MethodPost:
			var fields map[string]any
			json.NewDecoder(r.Body).Decode(&fields)
			if f.failOn != nil && f.failOn(stringField(fields, "skill_name")) {
				writeEnvelope(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Failed to create skill"})
				return
			}
			id := f.nextID
			f.nextID++
			fields["id"] = float64(id)
			f.rows[id] = fields
			f.order = append(f.order, id)
			writeEnvelope(w, http.StatusCreated, map[string]any{"success": true, "data": fields})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/skills/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/skills/"))
		if err != nil {
			writeEnvelope(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid id"})
			return
		}
		_, exists := f.rows[id]
		switch r.Method {
		case http.MethodPut:
			var fields map[string]any
			json.NewDecoder(r.Body).Decode(&fields)
			if f.failOn != nil && f.failOn(stringField(fields, "skill_name")) {
				writeEnvelope(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Failed to update skill"})
				return
			}
			if !exists {
				writeEnvelope(w, http.StatusNotFound, map[string]any{"success": false, "message": "Skill not found"})
				return
			}
			fields["id"] = float64(id)
			f.rows[id] = fields
			writeEnvelope(w, http.StatusOK, map[string]any{"success": true, "data": fields})
		case http.MethodDelete:
			f.deletes = append(f.deletes, id)
			if !exists {
				writeEnvelope(w, http.StatusNotFound, map[string]any{"success": false, "message": "Skill not found"})
				return
			}
			delete(f.rows, id)
			for i, oid := range f.order {
				if oid == id {
					f.order = append(f.order[:i], f.order[i+1:]...)
					break
				}
			}
			writeEnvelope(w, http.StatusOK, map[string]any{"success": true, "message": "Skill deleted successfully"})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	return mux
}

func writeEnvelope(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func (f *fakeAPI) seed(names ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, name := range names {
		id := f.nextID
		f.nextID++
		f.rows[id] = map[string]any{"id": float64(id), "skill_name": name, "proficiency_level": "Advanced", "category": "Backend"}
		f.order = append(f.order, id)
	}
}

func newTestEditor(t *testing.T, api *fakeAPI) *Editor {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	cli, err := New(srv.URL)
	require.NoError(t, err)
	return NewEditor(cli, "skills")
}

func skillFields(name string) map[string]any {
	return map[string]any{"skill_name": name, "proficiency_level": "Beginner", "category": "Backend"}
}

func TestEditorLoadPreservesServerOrder(t *testing.T) {
	api := newFakeAPI()
	api.seed("Go", "MySQL", "Redis")
	ed := newTestEditor(t, api)

	require.NoError(t, ed.Load(context.Background()))

	entries := ed.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "Go", stringField(entries[0].Fields, "skill_name"))
	assert.Equal(t, "MySQL", stringField(entries[1].Fields, "skill_name"))
	assert.Equal(t, "Redis", stringField(entries[2].Fields, "skill_name"))
	for _, entry := range entries {
		assert.False(t, entry.ID.IsPlaceholder())
	}
}

func TestEditorSaveAllCreatesAndAssignsDurableIDs(t *testing.T) {
	api := newFakeAPI()
	ed := newTestEditor(t, api)

	first := ed.AddItem(skillFields("Go"))
	second := ed.AddItem(skillFields("Docker"))
	assert.True(t, first.IsPlaceholder())
	assert.True(t, second.IsPlaceholder())
	assert.NotEqual(t, first, second)

	report := ed.SaveAll(context.Background())

	assert.Equal(t, AllSaved, report.Outcome)
	assert.Equal(t, 2, report.Saved)
	assert.Zero(t, report.Failed)
	entries := ed.Entries()
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.False(t, entry.ID.IsPlaceholder())
		id, ok := entry.ID.Persisted()
		assert.True(t, ok)
		assert.Positive(t, id)
	}
	// order unchanged
	assert.Equal(t, "Go", stringField(entries[0].Fields, "skill_name"))
	assert.Equal(t, "Docker", stringField(entries[1].Fields, "skill_name"))
}

func TestEditorSaveAllPartialFailureKeepsFailedSlot(t *testing.T) {
	api := newFakeAPI()
	api.failOn = func(name string) bool { return name == "Kubernetes" }
	ed := newTestEditor(t, api)

	ed.AddItem(skillFields("Go"))
	badID := ed.AddItem(skillFields("Kubernetes"))
	ed.AddItem(skillFields("Docker"))

	report := ed.SaveAll(context.Background())

	assert.Equal(t, PartialFailure, report.Outcome)
	assert.Equal(t, 2, report.Saved)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 3)
	assert.NoError(t, report.Errors[0])
	assert.Error(t, report.Errors[1])
	assert.NoError(t, report.Errors[2])

	entries := ed.Entries()
	require.Len(t, entries, 3)
	// failed slot keeps its placeholder identity and pre-save content
	assert.Equal(t, badID, entries[1].ID)
	assert.True(t, entries[1].ID.IsPlaceholder())
	assert.Equal(t, "Kubernetes", stringField(entries[1].Fields, "skill_name"))
	// neighbours were persisted in place
	assert.False(t, entries[0].ID.IsPlaceholder())
	assert.False(t, entries[2].ID.IsPlaceholder())

	// retry succeeds once the server recovers
	api.failOn = nil
	retry := ed.SaveAll(context.Background())
	assert.Equal(t, AllSaved, retry.Outcome)
	assert.False(t, ed.Entries()[1].ID.IsPlaceholder())
}

func TestEditorSaveAllAllFailed(t *testing.T) {
	api := newFakeAPI()
	api.failOn = func(string) bool { return true }
	ed := newTestEditor(t, api)

	ed.AddItem(skillFields("Go"))
	ed.AddItem(skillFields("Docker"))

	report := ed.SaveAll(context.Background())

	assert.Equal(t, AllFailed, report.Outcome)
	assert.Zero(t, report.Saved)
	assert.Equal(t, 2, report.Failed)
	for _, entry := range ed.Entries() {
		assert.True(t, entry.ID.IsPlaceholder())
	}
}

func TestEditorRemovePlaceholderSendsNoRequest(t *testing.T) {
	api := newFakeAPI()
	ed := newTestEditor(t, api)

	id := ed.AddItem(skillFields("Go"))
	require.NoError(t, ed.RemoveItem(context.Background(), id))

	assert.Empty(t, ed.Entries())
	assert.Empty(t, api.deletes)
}

func TestEditorRemovePersistedIssuesOneDelete(t *testing.T) {
	api := newFakeAPI()
	api.seed("Go", "MySQL")
	ed := newTestEditor(t, api)
	require.NoError(t, ed.Load(context.Background()))

	target := ed.Entries()[0].ID
	serverID, ok := target.Persisted()
	require.True(t, ok)

	require.NoError(t, ed.RemoveItem(context.Background(), target))

	assert.Equal(t, []int{serverID}, api.deletes)
	entries := ed.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "MySQL", stringField(entries[0].Fields, "skill_name"))
}

func TestEditorRemovePersistedKeepsEntryOnServerError(t *testing.T) {
	api := newFakeAPI()
	api.seed("Go")
	ed := newTestEditor(t, api)
	require.NoError(t, ed.Load(context.Background()))

	target := ed.Entries()[0].ID
	serverID, _ := target.Persisted()
	api.mu.Lock()
	delete(api.rows, serverID) // server row vanished; DELETE will 404
	api.mu.Unlock()

	err := ed.RemoveItem(context.Background(), target)
	require.Error(t, err)
	var apiErr APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Len(t, ed.Entries(), 1)
}

func TestEditorRemoveUnknownID(t *testing.T) {
	api := newFakeAPI()
	ed := newTestEditor(t, api)
	err := ed.RemoveItem(context.Background(), PersistedID(42))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "42")
}

func TestPlaceholderIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewPlaceholderID()
		s := id.String()
		assert.True(t, strings.HasPrefix(s, "new-"))
		require.False(t, seen[s], fmt.Sprintf("duplicate placeholder %s", s))
		seen[s] = true
	}
}
