package media

import (
	"errors"
	"io"
)

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// NoImageCaption is shown in place of an image that could not be loaded.
const NoImageCaption = "no image"

var (
	ErrEmptySource  = errors.New("media source is empty")
	ErrBlobNotFound = errors.New("object URL not found or already revoked")
	ErrBlobTooLarge = errors.New("media exceeds the configured size limit")
	ErrNoOrigin     = errors.New("API origin is not configured")
)

// Handle is the observable state of one displayed media element.
type Handle struct {
	ObjectURL   string `json:"objectUrl,omitempty"`
	State       State  `json:"state"`
	ErrorDetail string `json:"errorDetail,omitempty"`
	Caption     string `json:"caption,omitempty"`
	Source      string `json:"source,omitempty"`
}

// Blob is the content behind an object URL.
type Blob struct {
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

// BlobStore hands out object URLs for in-memory blobs. A URL keeps its bytes
// alive until it is revoked.
type BlobStore interface {
	Create(data []byte, contentType string) (string, error)
	Revoke(objectURL string) bool
	Open(objectURL string) (*Blob, error)
	Live() int
}
