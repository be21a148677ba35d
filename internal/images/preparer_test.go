package images_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Hali-creater/AuraPin/internal/images"
	"github.com/Hali-creater/AuraPin/internal/services"
	"github.com/Hali-creater/AuraPin/internal/testsupport"
)

func testOptions() images.Options {
	return images.Options{
		TargetWidth:  1000,
		TargetHeight: 1500,
		MinWidth:     600,
		MinHeight:    900,
		JPEGQuality:  85,
	}
}

func serveJPEG(t *testing.T, width, height int) *httptest.Server {
	t.Helper()
	data := testsupport.JPEGBytes(t, width, height)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(data)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestPrepareCropsToPinRatio(t *testing.T) {
	server := serveJPEG(t, 2000, 2000)
	preparer := images.NewPreparer(t.TempDir(), testOptions(), 5*time.Second, nil)

	artifact, err := preparer.Prepare(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if artifact.Width != 1000 || artifact.Height != 1500 {
		t.Fatalf("expected 1000x1500 artifact, got %dx%d", artifact.Width, artifact.Height)
	}
	if len(artifact.Flags) != 0 {
		t.Fatalf("unexpected flags: %v", artifact.Flags)
	}
	if !strings.HasSuffix(artifact.Path, ".jpg") {
		t.Fatalf("expected jpg artifact, got %s", artifact.Path)
	}
	if _, err := os.Stat(artifact.Path); err != nil {
		t.Fatalf("artifact missing on disk: %v", err)
	}
}

func TestPrepareFlagsLowQualitySource(t *testing.T) {
	server := serveJPEG(t, 300, 300)
	preparer := images.NewPreparer(t.TempDir(), testOptions(), 5*time.Second, nil)

	artifact, err := preparer.Prepare(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if artifact.Width != 600 || artifact.Height != 900 {
		t.Fatalf("expected upscale to 600x900, got %dx%d", artifact.Width, artifact.Height)
	}
	found := false
	for _, flag := range artifact.Flags {
		if flag == images.FlagLowQualitySource {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s flag, got %v", images.FlagLowQualitySource, artifact.Flags)
	}
}

func TestPrepareDownloadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	preparer := images.NewPreparer(t.TempDir(), testOptions(), 5*time.Second, nil)
	_, err := preparer.Prepare(context.Background(), server.URL)
	if !errors.Is(err, services.ErrImageUnavailable) {
		t.Fatalf("expected ErrImageUnavailable, got %v", err)
	}
}

func TestPrepareEmptyURL(t *testing.T) {
	preparer := images.NewPreparer(t.TempDir(), testOptions(), 5*time.Second, nil)
	_, err := preparer.Prepare(context.Background(), "")
	if !errors.Is(err, services.ErrImageUnavailable) {
		t.Fatalf("expected ErrImageUnavailable, got %v", err)
	}
}
