package media

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/apierr"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/logger"
)

// Store persists base64 data-URI images under a local media root and
// returns relative paths for the recipe image column.
type Store interface {
	SaveBase64Image(encoded string) (string, error)
}

type localStore struct {
	root string
	log  *logger.Logger
}

func NewLocalStore(root string, baseLog *logger.Logger) (Store, error) {
	storeLog := baseLog.With("store", "MediaStore")
	dir := filepath.Join(root, "recipes")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &localStore{root: root, log: storeLog}, nil
}

var extByMime = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// SaveBase64Image accepts "data:image/<type>;base64,<payload>" or a
// bare base64 payload and writes it with a uuid filename.
func (s *localStore) SaveBase64Image(encoded string) (string, error) {
	payload := encoded
	ext := ".png"
	if strings.HasPrefix(encoded, "data:") {
		parts := strings.SplitN(encoded, ",", 2)
		if len(parts) != 2 {
			return "", apierr.Validation("image", "malformed image data")
		}
		header := strings.TrimSuffix(strings.TrimPrefix(parts[0], "data:"), ";base64")
		if mapped, ok := extByMime[header]; ok {
			ext = mapped
		}
		payload = parts[1]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", apierr.Validation("image", "image is not valid base64")
	}
	if len(raw) == 0 {
		return "", apierr.Validation("image", "image is empty")
	}
	relPath := filepath.Join("recipes", uuid.New().String()+ext)
	fullPath := filepath.Join(s.root, relPath)
	if err := os.WriteFile(fullPath, raw, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	s.log.Debug("Saved recipe image", "path", relPath, "bytes", len(raw))
	return relPath, nil
}
