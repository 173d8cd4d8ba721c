package voice

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Cache stores generated audio keyed by a content hash, so identical text
// and settings never synthesize twice.
type Cache struct {
	mu  sync.Mutex
	dir string
}

// NewCache creates an audio cache rooted at dir.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Key derives the cache key from the text and every setting that affects
// the rendered audio.
func Key(text string, settings Settings) string {
	content := fmt.Sprintf("%s_%s_%s_%g_%d", text, settings.Engine, settings.Voice, settings.Speed, settings.Pitch)
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached audio path for key, if present.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := filepath.Join(c.dir, key+".wav")
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// Put copies the audio file into the cache and returns the cached path.
func (c *Cache) Put(key, audioFile string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	src, err := os.Open(audioFile)
	if err != nil {
		return "", fmt.Errorf("opening audio file: %w", err)
	}
	defer src.Close()

	path := filepath.Join(c.dir, key+".wav")
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating cache file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("caching audio file: %w", err)
	}

	return path, nil
}
