package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

// httpsTestClient rewires a client at an httptest server, bypassing the
// https-only constructor check which only matters for real deployments.
func httpsTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	c := &Client{baseURL: srv.URL, key: "test-key", http: srv.Client()}
	return c, srv
}

func TestSelectAllParsesRows(t *testing.T) {
	c, srv := httpsTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/patients" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("order"); got != "last_name.asc" {
			t.Errorf("order = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`[{"id":"p1"},{"id":"p2"}]`))
	}))
	defer srv.Close()

	rows, rerr := c.SelectAll(context.Background(), "patients", "last_name.asc")
	if rerr != nil {
		t.Fatalf("SelectAll: %v", rerr)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   ErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, KindAuth},
		{"forbidden", http.StatusForbidden, KindAuth},
		{"missing table", http.StatusNotFound, KindSchema},
		{"bad request", http.StatusBadRequest, KindSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, srv := httpsTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, rerr := c.SelectAll(context.Background(), "patients", "")
			if rerr == nil {
				t.Fatal("expected error")
			}
			if rerr.Kind != tt.want {
				t.Errorf("kind = %q, want %q", rerr.Kind, tt.want)
			}
		})
	}
}

func TestNetworkFailureIsTyped(t *testing.T) {
	c := &Client{baseURL: "http://127.0.0.1:1", key: "k", http: &http.Client{Timeout: 200 * time.Millisecond}}

	rerr := c.Upsert(context.Background(), "patients", map[string]string{"id": "p1"})
	if rerr == nil || rerr.Kind != KindNetwork {
		t.Fatalf("expected network error, got %v", rerr)
	}
}

func TestUpsertSendsMergePrefer(t *testing.T) {
	var prefer string
	c, srv := httpsTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefer = r.Header.Get("Prefer")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	if rerr := c.Upsert(context.Background(), "invoices", map[string]string{"id": "i1"}); rerr != nil {
		t.Fatalf("Upsert: %v", rerr)
	}
	if prefer != "resolution=merge-duplicates" {
		t.Errorf("Prefer = %q", prefer)
	}
}

func TestDeleteBulkFilter(t *testing.T) {
	var rawQuery string
	c, srv := httpsTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if rerr := c.DeleteBulk(context.Background(), "expenses", []string{"a", "b"}); rerr != nil {
		t.Fatalf("DeleteBulk: %v", rerr)
	}
	decoded, err := url.QueryUnescape(rawQuery)
	if err != nil {
		t.Fatalf("unescape: %v", err)
	}
	if !strings.Contains(decoded, `id=in.("a","b")`) {
		t.Errorf("filter = %q", decoded)
	}
}

func TestNewRejectsPlainHTTP(t *testing.T) {
	if _, err := New("http://xyz.supabase.co", "k", time.Second); err == nil {
		t.Fatal("expected error for non-https base URL")
	}
}
