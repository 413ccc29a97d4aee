package httpx

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNetHTTPAdapter(t *testing.T) {
	h := NetHTTPAdapter(func(w ResponseWriter, r *Request) {
		if r.Method != http.MethodPost || r.Path != "/echo" {
			t.Fatalf("request = %s %s", r.Method, r.Path)
		}
		if got := r.Header.Get("X-Probe"); got != "yes" {
			t.Fatalf("header = %q", got)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write(body)
	})

	srv := httptest.NewServer(h)
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/echo", strings.NewReader("ping"))
	req.Header.Set("X-Probe", "yes")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/plain" {
		t.Fatalf("content-type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ping" {
		t.Fatalf("body = %q", body)
	}
}

func TestNetHTTPAdapterImplicitOK(t *testing.T) {
	h := NetHTTPAdapter(func(w ResponseWriter, _ *Request) {
		_, _ = w.Write([]byte("ok"))
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}
