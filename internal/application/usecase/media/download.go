package media

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/natefinch/atomic"
	"go.uber.org/zap"

	"github.com/melevanoronha/admin-console/internal/domain/media"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

// Saver hands a materialized blob to the operator under a file name.
type Saver interface {
	Save(ctx context.Context, name string, blob *media.Blob) error
}

// Downloader fetches a whole video through the backend proxy.
type Downloader struct {
	origin   string
	http     Doer
	blobs    media.BlobStore
	maxBytes int64
	logger   logger.Logger
}

func NewDownloader(origin string, doer Doer, blobs media.BlobStore, maxBytes int64, log logger.Logger) *Downloader {
	return &Downloader{
		origin:   strings.TrimRight(origin, "/"),
		http:     doer,
		blobs:    blobs,
		maxBytes: maxBytes,
		logger:   log.With(zap.String("component", "video_downloader")),
	}
}

// Download buffers the video, passes it to saver and revokes the blob right after.
func (d *Downloader) Download(ctx context.Context, source string, saver Saver) error {
	source = strings.TrimSpace(source)
	if source == "" {
		return media.ErrEmptySource
	}
	if d.origin == "" {
		return media.ErrNoOrigin
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ProxyURL(d.origin, source), nil)
	if err != nil {
		return err
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return fmt.Errorf("error downloading video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("error downloading video: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	data, err := readLimited(resp.Body, d.maxBytes)
	if err != nil {
		return fmt.Errorf("error downloading video: %w", err)
	}

	objectURL, err := d.blobs.Create(data, resp.Header.Get("Content-Type"))
	if err != nil {
		return fmt.Errorf("error downloading video: %w", err)
	}
	defer d.blobs.Revoke(objectURL)

	blob, err := d.blobs.Open(objectURL)
	if err != nil {
		return err
	}

	name := DownloadName(source)
	if err := saver.Save(ctx, name, blob); err != nil {
		return fmt.Errorf("error saving video: %w", err)
	}
	d.logger.Info("Video downloaded", zap.String("name", name), zap.Int64("bytes", blob.Size))
	return nil
}

// FileSaver writes downloads into a directory, replacing files atomically.
type FileSaver struct {
	dir string
}

func NewFileSaver(dir string) (*FileSaver, error) {
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return nil, fmt.Errorf("expand download dir %q: %w", dir, err)
	}
	return &FileSaver{dir: expanded}, nil
}

func (s *FileSaver) Save(ctx context.Context, name string, blob *media.Blob) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return atomic.WriteFile(filepath.Join(s.dir, filepath.Base(name)), blob.Body)
}
