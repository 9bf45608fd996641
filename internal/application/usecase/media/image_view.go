package media

import (
	"context"
	"sync"

	"github.com/melevanoronha/admin-console/internal/domain/media"
	"github.com/melevanoronha/admin-console/pkg/metrics"
)

// ImageView is one displayed image. It owns at most one live object URL and
// only ever shows the result of the most recent SetSource.
type ImageView struct {
	loader *ImageLoader
	blobs  media.BlobStore

	mu     sync.Mutex
	seq    uint64
	handle media.Handle
	closed bool
}

func NewImageView(loader *ImageLoader) *ImageView {
	return &ImageView{loader: loader, blobs: loader.blobs}
}

// SetSource releases the current object URL and starts loading source. The
// returned channel yields the view's state once this load settles, whether it
// won or was superseded.
func (v *ImageView) SetSource(ctx context.Context, source string) <-chan media.Handle {
	v.mu.Lock()
	v.seq++
	seq := v.seq
	v.release()
	v.handle = media.Handle{State: media.StateLoading, Source: source}
	v.closed = false
	v.mu.Unlock()

	done := make(chan media.Handle, 1)
	go func() {
		defer close(done)
		payload, err := v.loader.Fetch(ctx, source)

		v.mu.Lock()
		defer v.mu.Unlock()
		if seq != v.seq || v.closed {
			metrics.MediaLoads.WithLabelValues(string(media.KindImage), "stale").Inc()
			done <- v.handle
			return
		}
		if err != nil {
			v.handle = v.loader.failed(source, err)
		} else {
			v.handle = v.loader.Materialize(source, payload)
		}
		done <- v.handle
	}()
	return done
}

// Reload repeats the current source with a fresh cache buster.
func (v *ImageView) Reload(ctx context.Context) <-chan media.Handle {
	v.mu.Lock()
	source := v.handle.Source
	v.mu.Unlock()
	return v.SetSource(ctx, source)
}

func (v *ImageView) Handle() media.Handle {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.handle
}

// Close releases the object URL and discards any load still in flight.
func (v *ImageView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	v.closed = true
	v.release()
	v.handle = media.Handle{}
}

func (v *ImageView) release() {
	if v.handle.ObjectURL != "" {
		v.blobs.Revoke(v.handle.ObjectURL)
	}
}
