package chesscom

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/discochess/openings/internal/archive"
	"github.com/discochess/openings/internal/period"
)

var march = period.Period{Year: 2024, Month: time.March}

func TestStore_URL(t *testing.T) {
	s := New()
	got := s.URL("Hikaru", march)
	want := "https://api.chess.com/pub/player/hikaru/games/2024/03"
	if got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}

func TestStore_ReadMonth(t *testing.T) {
	var gotPath, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"games":[]}`))
	}))
	defer srv.Close()

	s := New(WithBaseURL(srv.URL+"/"), WithTimeout(5*time.Second))
	defer s.Close()

	data, err := s.ReadMonth(context.Background(), "MagnusCarlsen", march)
	if err != nil {
		t.Fatalf("ReadMonth() error = %v", err)
	}
	if string(data) != `{"games":[]}` {
		t.Errorf("ReadMonth() = %q", data)
	}
	if gotPath != "/player/magnuscarlsen/games/2024/03" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAgent != DefaultUserAgent {
		t.Errorf("User-Agent = %q", gotAgent)
	}
}

func TestStore_ReadMonthStatus(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		wantNotFound bool
	}{
		{"not found", http.StatusNotFound, true},
		{"rate limited", http.StatusTooManyRequests, false},
		{"server error", http.StatusInternalServerError, false},
		{"gone", http.StatusGone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			s := New(WithBaseURL(srv.URL), WithUserAgent("test"))
			_, err := s.ReadMonth(context.Background(), "hikaru", march)
			if err == nil {
				t.Fatal("ReadMonth() error = nil")
			}
			if errors.Is(err, archive.ErrNotFound) != tt.wantNotFound {
				t.Errorf("ReadMonth() error = %v, wantNotFound %v", err, tt.wantNotFound)
			}
		})
	}
}

func TestStore_ReadMonthCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if _, err := s.ReadMonth(ctx, "hikaru", march); !errors.Is(err, context.Canceled) {
		t.Errorf("ReadMonth() error = %v, want context.Canceled", err)
	}
}

func TestNew_TimeoutDoesNotModifyCallerClient(t *testing.T) {
	tests := []struct {
		name   string
		client *http.Client
		opts   []Option
		want   time.Duration
	}{
		{"default client", nil, nil, DefaultTimeout},
		{"default client with timeout", nil, []Option{WithTimeout(5 * time.Second)}, 5 * time.Second},
		{"nil client with timeout", nil, []Option{WithHTTPClient(nil), WithTimeout(time.Second)}, time.Second},
		{"timeout before client", &http.Client{Timeout: time.Minute}, []Option{WithTimeout(2 * time.Second)}, 2 * time.Second},
		{"caller client only", &http.Client{Timeout: time.Minute}, nil, time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			var before time.Duration
			if tt.client != nil {
				before = tt.client.Timeout
				opts = append(opts, WithHTTPClient(tt.client))
			}
			s := New(opts...)
			if s.client.Timeout != tt.want {
				t.Errorf("client.Timeout = %v, want %v", s.client.Timeout, tt.want)
			}
			if tt.client != nil && tt.client.Timeout != before {
				t.Errorf("caller client Timeout changed to %v", tt.client.Timeout)
			}
		})
	}
}
