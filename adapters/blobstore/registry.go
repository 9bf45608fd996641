package blobstore

import (
	"bytes"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/melevanoronha/admin-console/internal/domain/media"
	"github.com/melevanoronha/admin-console/pkg/logger"
	"github.com/melevanoronha/admin-console/pkg/metrics"
)

const Scheme = "blob:"

type entry struct {
	data        []byte
	contentType string
}

// Registry is an in-memory object URL table. Bytes stay reachable until the
// URL is revoked.
type Registry struct {
	mu       sync.RWMutex
	blobs    map[string]entry
	bytes    int64
	maxBytes int64
	logger   logger.Logger
}

// NewRegistry creates a registry that rejects single blobs above maxBytes (0 means no limit).
func NewRegistry(maxBytes int64, log logger.Logger) *Registry {
	return &Registry{
		blobs:    make(map[string]entry),
		maxBytes: maxBytes,
		logger:   log.With(zap.String("component", "blob_registry")),
	}
}

func (r *Registry) Create(data []byte, contentType string) (string, error) {
	if r.maxBytes > 0 && int64(len(data)) > r.maxBytes {
		return "", media.ErrBlobTooLarge
	}
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		contentType = mimetype.Detect(data).String()
	}

	id := uuid.NewString()
	r.mu.Lock()
	r.blobs[id] = entry{data: data, contentType: contentType}
	r.bytes += int64(len(data))
	r.report()
	r.mu.Unlock()

	return Scheme + id, nil
}

// Revoke frees the blob behind objectURL and reports whether it was live.
func (r *Registry) Revoke(objectURL string) bool {
	id, ok := ID(objectURL)
	if !ok {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	e, found := r.blobs[id]
	if !found {
		return false
	}
	delete(r.blobs, id)
	r.bytes -= int64(len(e.data))
	r.report()
	return true
}

func (r *Registry) Open(objectURL string) (*media.Blob, error) {
	id, ok := ID(objectURL)
	if !ok {
		return nil, media.ErrBlobNotFound
	}

	r.mu.RLock()
	e, found := r.blobs[id]
	r.mu.RUnlock()
	if !found {
		return nil, media.ErrBlobNotFound
	}
	return &media.Blob{
		ContentType: e.contentType,
		Size:        int64(len(e.data)),
		Body:        bytes.NewReader(e.data),
	}, nil
}

func (r *Registry) Live() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.blobs)
}

// report must be called with the write lock held.
func (r *Registry) report() {
	metrics.LiveObjectURLs.Set(float64(len(r.blobs)))
	metrics.LiveObjectBytes.Set(float64(r.bytes))
}

// ID extracts the registry id from an object URL.
func ID(objectURL string) (string, bool) {
	id, ok := strings.CutPrefix(objectURL, Scheme)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Path is where the console serves the bytes of objectURL.
func Path(objectURL string) string {
	id, ok := ID(objectURL)
	if !ok {
		return ""
	}
	return "/console/blob/" + id
}
