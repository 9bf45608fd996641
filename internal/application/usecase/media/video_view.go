package media

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/melevanoronha/admin-console/internal/domain/media"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

// VideoView is one displayed video player.
type VideoView struct {
	downloader *Downloader
	origin     string
	logger     logger.Logger

	mu    sync.Mutex
	state VideoState
}

func NewVideoView(origin string, downloader *Downloader, log logger.Logger) *VideoView {
	return &VideoView{
		origin:     origin,
		downloader: downloader,
		logger:     log,
	}
}

func (v *VideoView) SetSource(source string) VideoState {
	st := PrepareVideo(v.origin, source)
	v.mu.Lock()
	v.state = st
	v.mu.Unlock()
	return st
}

// ReportPlaybackError records a failure raised by the media element and offers the download.
func (v *VideoView) ReportPlaybackError(code int) VideoState {
	failure := ClassifyPlaybackError(code)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Playback = &failure
	v.state.ShowDownload = true
	v.logger.Warn("Video playback failed",
		zap.Int("code", code),
		zap.String("category", string(failure.Category)),
		zap.String("source", v.state.Source),
		zap.String("mime_type", v.state.MIMEType),
	)
	return v.state
}

// PlaybackReady clears a previous playback error once the element can play.
func (v *VideoView) PlaybackReady() VideoState {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Playback = nil
	v.state.ShowDownload = v.state.MIMEType == MIMEWMV
	return v.state
}

// Download saves the current source. Failures only set the download advisory.
func (v *VideoView) Download(ctx context.Context, saver Saver) VideoState {
	v.mu.Lock()
	source := v.state.Source
	if source == "" {
		v.mu.Unlock()
		return v.State()
	}
	v.state.Downloading = true
	v.state.DownloadAdvisory = ""
	v.mu.Unlock()

	err := v.downloader.Download(ctx, source, saver)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Downloading = false
	if err != nil {
		v.state.DownloadAdvisory = err.Error()
	}
	return v.state
}

func (v *VideoView) State() VideoState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Close forgets the source. Playback URLs hold no local blob, so nothing is revoked.
func (v *VideoView) Close() {
	v.mu.Lock()
	v.state = VideoState{Handle: media.Handle{}}
	v.mu.Unlock()
}
