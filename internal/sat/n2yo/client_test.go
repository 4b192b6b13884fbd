package n2yo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Choertbaden/sattrack/internal/sat"
)

const issResponse = `{
	"info": {"satname": "SPACE STATION", "satid": 25544, "transactionscount": 4},
	"positions": [{
		"satlatitude": 37.47,
		"satlongitude": -122.17,
		"sataltitude": 420.1,
		"azimuth": 254.3,
		"elevation": 12.5,
		"ra": 63.0,
		"dec": -9.7,
		"timestamp": 1700000000
	}]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		APIKey:   "test-key",
		NoradID:  25544,
		Observer: sat.Observer{Latitude: 40.0, Longitude: -75.0, Altitude: 0},
		BaseURL:  srv.URL,
		Timeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return c
}

func TestClient_Fetch(t *testing.T) {
	var gotURI string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.RequestURI
		w.Write([]byte(issResponse))
	})

	res := c.Fetch(context.Background())
	if res.Status != sat.StatusOK {
		t.Fatalf("Fetch status = %v (%v), want ok", res.Status, res.Err)
	}
	if res.Position.Latitude != 37.47 || res.Position.Longitude != -122.17 || res.Position.Elevation != 12.5 {
		t.Errorf("unexpected position: %+v", res.Position)
	}

	want := "/positions/25544/40/-75/0/1/&apiKey=test-key"
	if gotURI != want {
		t.Errorf("request URI = %q, want %q", gotURI, want)
	}
}

func TestClient_Fetch_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"info": {"satname": "SPACE STATION", "satid": 25544}, "positions": []}`))
	})

	res := c.Fetch(context.Background())
	if res.Status != sat.StatusEmpty {
		t.Fatalf("Fetch status = %v, want empty", res.Status)
	}
	if res.Err != nil {
		t.Errorf("empty result must not carry an error, got %v", res.Err)
	}
}

func TestClient_Fetch_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such satellite", http.StatusNotFound)
	})

	res := c.Fetch(context.Background())
	if res.Status != sat.StatusError {
		t.Fatalf("Fetch status = %v, want error", res.Status)
	}
	if res.Err == nil {
		t.Error("error result must carry a cause")
	}
}

func TestClient_Fetch_BadPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	if res := c.Fetch(context.Background()); res.Status != sat.StatusError {
		t.Fatalf("Fetch status = %v, want error", res.Status)
	}
}

func TestClient_Fetch_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(Config{APIKey: "k", NoradID: 25544, BaseURL: url, Timeout: time.Second})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if res := c.Fetch(context.Background()); res.Status != sat.StatusError {
		t.Fatalf("Fetch status = %v, want error", res.Status)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{NoradID: 25544}); err == nil {
		t.Error("expected error for missing API key")
	}
	if _, err := New(Config{APIKey: "k"}); err == nil {
		t.Error("expected error for missing catalog number")
	}
}
