package quintoandar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/grid"
)

func TestFetchIDs(t *testing.T) {
	var gotOffset, gotPageSize string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOffset = r.URL.Query().Get("offset")
		gotPageSize = r.URL.Query().Get("page_size")

		if r.Header.Get("User-Agent") == "" {
			t.Error("Expected a User-Agent header")
		}

		fmt.Fprint(w, `{"hits":{"hits":[{"_id":"893312828"},{"_id":"893312829"}],"total":{"value":2409}}}`)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)

	page, err := client.FetchIDs(context.Background(), grid.Region{Label: "test"}, 100, 50)
	if err != nil {
		t.Fatalf("FetchIDs failed: %v", err)
	}

	if gotOffset != "100" || gotPageSize != "50" {
		t.Fatalf("Expected offset=100 page_size=50, got offset=%s page_size=%s", gotOffset, gotPageSize)
	}
	if page.Total != 2409 {
		t.Fatalf("Expected total 2409, got %d", page.Total)
	}
	if len(page.IDs) != 2 || page.IDs[0] != "893312828" {
		t.Fatalf("Unexpected IDs: %v", page.IDs)
	}
}

func TestFetchIDsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)

	if _, err := client.FetchIDs(context.Background(), grid.Region{}, 0, 50); err == nil {
		t.Fatal("Expected an error on HTTP 502")
	}
}

func TestFetchDetailNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)

	_, err := client.FetchDetail(context.Background(), "gone")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestFetchDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/house/893312828" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"id":"893312828","rent":2300}`)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)

	raw, err := client.FetchDetail(context.Background(), "893312828")
	if err != nil {
		t.Fatalf("FetchDetail failed: %v", err)
	}
	if string(raw) != `{"id":"893312828","rent":2300}` {
		t.Fatalf("Unexpected payload: %s", raw)
	}
}

func TestRotateSwapsIdentity(t *testing.T) {
	f := newFingerprint()

	before := f.deviceID
	f.rotate()

	if f.deviceID == before {
		t.Fatal("Expected rotation to change the device ID")
	}
}
