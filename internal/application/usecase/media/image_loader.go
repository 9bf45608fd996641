package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/melevanoronha/admin-console/internal/application/service"
	"github.com/melevanoronha/admin-console/internal/domain/media"
	"github.com/melevanoronha/admin-console/pkg/logger"
	"github.com/melevanoronha/admin-console/pkg/metrics"
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Payload is a fetched media body that has not been turned into an object URL yet.
type Payload struct {
	Data        []byte
	ContentType string
}

// ImageLoader fetches protected images with the operator's bearer token.
type ImageLoader struct {
	origin   string
	http     Doer
	session  service.SessionContext
	blobs    media.BlobStore
	maxBytes int64
	now      func() time.Time
	logger   logger.Logger
}

func NewImageLoader(origin string, doer Doer, sess service.SessionContext, blobs media.BlobStore, maxBytes int64, log logger.Logger) *ImageLoader {
	return &ImageLoader{
		origin:   strings.TrimRight(origin, "/"),
		http:     doer,
		session:  sess,
		blobs:    blobs,
		maxBytes: maxBytes,
		now:      time.Now,
		logger:   log.With(zap.String("component", "image_loader")),
	}
}

// ResolveURL prefixes relative sources with the API origin and appends the
// _t cache buster.
func (l *ImageLoader) ResolveURL(source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", media.ErrEmptySource
	}

	target := source
	if !strings.HasPrefix(source, "http") {
		if l.origin == "" {
			return "", media.ErrNoOrigin
		}
		if !strings.HasPrefix(source, "/") {
			source = "/" + source
		}
		target = l.origin + source
	}

	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + "_t=" + strconv.FormatInt(l.now().UnixMilli(), 10), nil
}

// Fetch downloads the image bytes without registering them.
func (l *ImageLoader) Fetch(ctx context.Context, source string) (*Payload, error) {
	target, err := l.ResolveURL(source)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	if l.session != nil {
		if token := l.session.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("error loading image: status %d", resp.StatusCode)
	}

	data, err := readLimited(resp.Body, l.maxBytes)
	if err != nil {
		return nil, err
	}
	return &Payload{Data: data, ContentType: resp.Header.Get("Content-Type")}, nil
}

// Materialize turns a payload into a Ready handle backed by a new object URL.
func (l *ImageLoader) Materialize(source string, p *Payload) media.Handle {
	objectURL, err := l.blobs.Create(p.Data, p.ContentType)
	if err != nil {
		return l.failed(source, err)
	}
	metrics.MediaLoads.WithLabelValues(string(media.KindImage), "ready").Inc()
	return media.Handle{ObjectURL: objectURL, State: media.StateReady, Source: source}
}

// Load fetches and materializes in one step. It never returns an error: every
// failure becomes a Failed handle with the neutral caption.
func (l *ImageLoader) Load(ctx context.Context, source string) media.Handle {
	p, err := l.Fetch(ctx, source)
	if err != nil {
		return l.failed(source, err)
	}
	return l.Materialize(source, p)
}

func (l *ImageLoader) failed(source string, err error) media.Handle {
	metrics.MediaLoads.WithLabelValues(string(media.KindImage), "failed").Inc()
	if !errors.Is(err, media.ErrEmptySource) {
		l.logger.Debug("Image unavailable", zap.String("source", source), zap.Error(err))
	}
	return media.Handle{
		State:       media.StateFailed,
		ErrorDetail: err.Error(),
		Caption:     media.NoImageCaption,
		Source:      source,
	}
}

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, media.ErrBlobTooLarge
	}
	return data, nil
}
