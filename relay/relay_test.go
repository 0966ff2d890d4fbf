package relay

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pagebridge/pagebridge/bridge"
)

func validPayload(t *testing.T) []byte {
	t.Helper()
	data, err := bridge.MarshalResult(&bridge.ExtractionResult{
		URL:      "https://example.com",
		Viewport: bridge.Viewport{Width: 1440, Height: 900},
		Root: &bridge.BridgeNode{
			Tag: "body", Type: bridge.NodeFrame, Visible: true,
			Bounds: bridge.Rect{Width: 1440, Height: 900},
		},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func TestRelayRoundTrip(t *testing.T) {
	srv := httptest.NewServer(New("127.0.0.1:0", nil).Handler())
	defer srv.Close()

	// Empty relay: 404.
	resp, err := http.Get(srv.URL + "/v1/payload/latest")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("empty latest: got %d, want 404", resp.StatusCode)
	}

	payload := validPayload(t)
	resp, err = http.Post(srv.URL+"/v1/payload", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("post: got %d, want 204", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("missing request ID header")
	}

	resp, err = http.Get(srv.URL + "/v1/payload/latest")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("latest: got %d", resp.StatusCode)
	}
	if !bytes.Equal(got, payload) {
		t.Error("latest payload does not round-trip")
	}
}

func TestRelayRejectsInvalidPayload(t *testing.T) {
	srv := httptest.NewServer(New("127.0.0.1:0", nil).Handler())
	defer srv.Close()

	good := validPayload(t)
	resp, err := http.Post(srv.URL+"/v1/payload", "application/json", bytes.NewReader(good))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()

	resp, err = http.Post(srv.URL+"/v1/payload", "application/json", bytes.NewReader([]byte(`{"broken":`)))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("invalid post: got %d, want 422", resp.StatusCode)
	}

	// The previous payload survives a rejected one.
	resp, err = http.Get(srv.URL + "/v1/payload/latest")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !bytes.Equal(got, good) {
		t.Error("rejected payload clobbered the stored one")
	}
}

func TestRelayHealth(t *testing.T) {
	srv := httptest.NewServer(New("127.0.0.1:0", nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health: got %d", resp.StatusCode)
	}
}
