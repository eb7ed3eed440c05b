package media

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/apierr"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/logger"
)

func newTestStore(t *testing.T) (Store, string) {
	t.Helper()
	root := t.TempDir()
	log := &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
	store, err := NewLocalStore(root, log)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, root
}

func TestSaveBase64Image_DataURI(t *testing.T) {
	store, root := newTestStore(t)
	payload := base64.StdEncoding.EncodeToString([]byte("fake-png-bytes"))

	relPath, err := store.SaveBase64Image("data:image/png;base64," + payload)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(relPath, "recipes"+string(filepath.Separator)) || !strings.HasSuffix(relPath, ".png") {
		t.Fatalf("unexpected relative path %q", relPath)
	}
	data, err := os.ReadFile(filepath.Join(root, relPath))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "fake-png-bytes" {
		t.Fatalf("round trip mismatch: %q", data)
	}
}

func TestSaveBase64Image_JpegExtension(t *testing.T) {
	store, _ := newTestStore(t)
	payload := base64.StdEncoding.EncodeToString([]byte("jpeg"))

	relPath, err := store.SaveBase64Image("data:image/jpeg;base64," + payload)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(relPath, ".jpg") {
		t.Fatalf("expected .jpg extension, got %q", relPath)
	}
}

func TestSaveBase64Image_RejectsGarbage(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.SaveBase64Image("not base64 at all!!!")
	if apiErr, ok := apierr.As(err); !ok || apiErr.Field != "image" {
		t.Fatalf("expected image validation error, got %v", err)
	}

	_, err = store.SaveBase64Image("data:image/png;base64")
	if _, ok := apierr.As(err); !ok {
		t.Fatalf("expected malformed data uri rejection, got %v", err)
	}

	_, err = store.SaveBase64Image("")
	if _, ok := apierr.As(err); !ok {
		t.Fatalf("expected empty payload rejection, got %v", err)
	}
}
