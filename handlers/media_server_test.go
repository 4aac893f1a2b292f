package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stedward-parish/directorybackend/media"
)

func newMediaServer(t *testing.T) (http.HandlerFunc, string) {
	t.Helper()
	mediaRoot := t.TempDir()
	store, err := media.NewLocalStorage(mediaRoot)
	if err != nil {
		t.Fatalf("failed to init media store: %v", err)
	}
	return MediaServer(store), mediaRoot
}

func serveMedia(handler http.HandlerFunc, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestMediaServerServesExistingFile(t *testing.T) {
	handler, mediaRoot := newMediaServer(t)

	photoDir := filepath.Join(mediaRoot, "profiles", "u1")
	if err := os.MkdirAll(photoDir, 0755); err != nil {
		t.Fatalf("failed to create photo dir: %v", err)
	}
	content := []byte("jpeg bytes")
	if err := os.WriteFile(filepath.Join(photoDir, "beach.jpg"), content, 0644); err != nil {
		t.Fatalf("failed to write photo: %v", err)
	}

	rec := serveMedia(handler, "/media/profiles/u1/beach.jpg")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != string(content) {
		t.Errorf("body = %q, want stored file contents", rec.Body.String())
	}
}

func TestMediaServerUniformNotFound(t *testing.T) {
	handler, mediaRoot := newMediaServer(t)

	// a real file outside the media root that traversal must not reach
	secret := filepath.Join(filepath.Dir(mediaRoot), "secret.txt")
	if err := os.WriteFile(secret, []byte("secret"), 0644); err != nil {
		t.Fatalf("failed to write secret file: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(mediaRoot, "profiles", "u1"), 0755); err != nil {
		t.Fatalf("failed to create photo dir: %v", err)
	}

	paths := []struct {
		name string
		path string
	}{
		{"missing file", "/media/profiles/u1/nope.jpg"},
		{"traversal", "/media/../secret.txt"},
		{"deep traversal", "/media/../../../../etc/passwd"},
		{"directory target", "/media/profiles/u1"},
		{"empty path", "/media/"},
	}

	var bodies []string
	for _, tt := range paths {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveMedia(handler, tt.path)
			if rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", rec.Code)
			}
			bodies = append(bodies, rec.Body.String())
		})
	}

	// every failure mode reads identically; nothing hints at why
	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Errorf("response body %d differs from body 0: %q vs %q", i, bodies[i], bodies[0])
		}
	}
}
