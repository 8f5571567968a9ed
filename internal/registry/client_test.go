package registry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeSheet is a tiny in-memory stand-in for the spreadsheet API.
type fakeSheet struct {
	mu      sync.Mutex
	rows    map[string]Record
	lastReq *http.Request
	created int
	patched int
}

func newFakeSheet(rows ...Record) *fakeSheet {
	f := &fakeSheet{rows: make(map[string]Record)}
	for _, r := range rows {
		f.rows[r.Fields[StudentIDField].(string)] = r
	}
	return f
}

func (f *fakeSheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastReq = r

	if r.Header.Get("Authorization") != "Bearer token" {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"type": "AUTHENTICATION_REQUIRED"}})
		return
	}

	switch r.Method {
	case http.MethodGet:
		var out listResponse
		for id, rec := range f.rows {
			if r.URL.Query().Get("filterByFormula") == formula(StudentIDField, id) {
				out.Records = append(out.Records, rec)
			}
		}
		json.NewEncoder(w).Encode(out)
	case http.MethodPost, http.MethodPatch:
		var rec Record
		json.NewDecoder(r.Body).Decode(&rec)
		id := rec.Fields[StudentIDField].(string)
		if r.Method == http.MethodPost {
			f.created++
			rec.ID = "rec" + id
		} else {
			f.patched++
			rec.ID = f.rows[id].ID
		}
		f.rows[id] = rec
		json.NewEncoder(w).Encode(rec)
	}
}

func TestFind(t *testing.T) {
	sheet := newFakeSheet(Record{ID: "rec1", Fields: map[string]any{StudentIDField: "20070001", "nickname": " Mint "}})
	srv := httptest.NewServer(sheet)
	defer srv.Close()

	c := NewClient(srv.URL, "app123", "token")
	rec, err := c.Find(context.Background(), "Sophomores", "20070001")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if rec.ID != "rec1" || rec.String("nickname") != "Mint" {
		t.Errorf("record = %+v", rec)
	}
	if got := sheet.lastReq.URL.Path; got != "/app123/Sophomores" {
		t.Errorf("path = %q", got)
	}
	if got := sheet.lastReq.URL.Query().Get("maxRecords"); got != "1" {
		t.Errorf("maxRecords = %q", got)
	}

	if _, err := c.Find(context.Background(), "Sophomores", "20079999"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing row err = %v, want ErrNotFound", err)
	}
}

func TestFindUnauthorized(t *testing.T) {
	srv := httptest.NewServer(newFakeSheet())
	defer srv.Close()

	c := NewClient(srv.URL, "app123", "wrong")
	_, err := c.Find(context.Background(), "Sophomores", "20070001")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want api error", err)
	}
}

func TestUpsert(t *testing.T) {
	sheet := newFakeSheet()
	srv := httptest.NewServer(sheet)
	defer srv.Close()

	c := NewClient(srv.URL+"/", "app123", "token")
	ctx := context.Background()

	rec, err := c.Upsert(ctx, "Freshmen", "21070001", map[string]any{"nickname": "Pun"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.ID != "rec21070001" || sheet.created != 1 {
		t.Fatalf("create: rec=%+v created=%d", rec, sheet.created)
	}

	if _, err := c.Upsert(ctx, "Freshmen", "21070001", map[string]any{"nickname": "Punpun"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if sheet.created != 1 || sheet.patched != 1 {
		t.Errorf("created=%d patched=%d, want 1 and 1", sheet.created, sheet.patched)
	}
	if got := sheet.rows["21070001"].Fields["nickname"]; got != "Punpun" {
		t.Errorf("nickname = %v", got)
	}
}

func TestFormulaEscapesQuotes(t *testing.T) {
	got := formula("student_id", "a'b")
	want := `{student_id} = 'a\'b'`
	if got != want {
		t.Errorf("formula = %q, want %q", got, want)
	}
}
