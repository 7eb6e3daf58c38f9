package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/offerhub/offerhub-go/internal/model"
)

var ErrFolderNotEmpty = errors.New("folder is not empty")

type memoryObject struct {
	contentType string
	data        []byte
}

// MemoryStore is an in-process object store used for local development and tests.
// Like a hosted media service it refuses to delete a folder that still has contents.
type MemoryStore struct {
	mu        sync.RWMutex
	objects   map[string]memoryObject
	folders   map[string]struct{}
	publicURL string
}

// NewMemoryStore creates an empty MemoryStore serving URLs under publicURL.
func NewMemoryStore(publicURL string) *MemoryStore {
	return &MemoryStore{
		objects:   make(map[string]memoryObject),
		folders:   make(map[string]struct{}),
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (m *MemoryStore) Put(_ context.Context, key, contentType string, data []byte) (*model.AssetDescriptor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[key] = memoryObject{contentType: contentType, data: append([]byte(nil), data...)}
	sum := md5.Sum(data)

	return &model.AssetDescriptor{
		SecureURL:   m.publicURL + "/" + key,
		PublicID:    key,
		Folder:      path.Dir(key),
		ContentType: contentType,
		Bytes:       int64(len(data)),
		ETag:        hex.EncodeToString(sum[:]),
	}, nil
}

func (m *MemoryStore) CreateFolder(_ context.Context, folder string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.folders[folderKey(folder)] = struct{}{}
	return nil
}

func (m *MemoryStore) List(_ context.Context, folder string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.keysUnder(folderKey(folder)), nil
}

func (m *MemoryStore) Delete(_ context.Context, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.objects, key)
	}
	return nil
}

func (m *MemoryStore) DeleteFolder(_ context.Context, folder string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := folderKey(folder)
	if len(m.keysUnder(prefix)) > 0 {
		return ErrFolderNotEmpty
	}
	delete(m.folders, prefix)
	return nil
}

// Exists reports whether an object is stored under key.
func (m *MemoryStore) Exists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.objects[key]
	return ok
}

// HasFolder reports whether a folder marker exists.
func (m *MemoryStore) HasFolder(folder string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.folders[folderKey(folder)]
	return ok
}

// keysUnder must be called with the lock held.
func (m *MemoryStore) keysUnder(prefix string) []string {
	var keys []string
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
