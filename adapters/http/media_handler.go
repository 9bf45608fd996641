package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/melevanoronha/admin-console/adapters/blobstore"
	mediaUC "github.com/melevanoronha/admin-console/internal/application/usecase/media"
	"github.com/melevanoronha/admin-console/internal/domain/media"
	"github.com/melevanoronha/admin-console/pkg/apperror"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

// MediaHandler keeps one image or video view per display slot, the way each
// on-screen element owns its own loader.
type MediaHandler struct {
	images     *mediaUC.ImageLoader
	downloader *mediaUC.Downloader
	blobs      *blobstore.Registry
	diskSaver  mediaUC.Saver
	origin     string
	logger     logger.Logger

	mu         sync.Mutex
	imageViews map[string]*mediaUC.ImageView
	videoViews map[string]*mediaUC.VideoView
}

func NewMediaHandler(
	origin string,
	images *mediaUC.ImageLoader,
	downloader *mediaUC.Downloader,
	blobs *blobstore.Registry,
	diskSaver mediaUC.Saver,
	log logger.Logger,
) *MediaHandler {
	return &MediaHandler{
		origin:     origin,
		images:     images,
		downloader: downloader,
		blobs:      blobs,
		diskSaver:  diskSaver,
		logger:     log.With(zap.String("component", "media_handler")),
		imageViews: map[string]*mediaUC.ImageView{},
		videoViews: map[string]*mediaUC.VideoView{},
	}
}

type sourceRequest struct {
	Source string `json:"source"`
}

type playbackErrorRequest struct {
	Code int `json:"code"`
}

func (h *MediaHandler) imageView(slot string) *mediaUC.ImageView {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.imageViews[slot]
	if !ok {
		v = mediaUC.NewImageView(h.images)
		h.imageViews[slot] = v
	}
	return v
}

func (h *MediaHandler) videoView(slot string) *mediaUC.VideoView {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.videoViews[slot]
	if !ok {
		v = mediaUC.NewVideoView(h.origin, h.downloader, h.logger)
		h.videoViews[slot] = v
	}
	return v
}

// SetImage points a slot at a new source and waits for that load to settle.
// The load keeps running on its own if the request goes away first.
func (h *MediaHandler) SetImage(c *gin.Context) {
	var req sourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewHTTP(http.StatusBadRequest, "invalid request data"))
		return
	}
	done := h.imageView(c.Param("slot")).SetSource(context.WithoutCancel(c.Request.Context()), req.Source)
	h.awaitImage(c, done)
}

func (h *MediaHandler) ReloadImage(c *gin.Context) {
	done := h.imageView(c.Param("slot")).Reload(context.WithoutCancel(c.Request.Context()))
	h.awaitImage(c, done)
}

func (h *MediaHandler) awaitImage(c *gin.Context, done <-chan media.Handle) {
	select {
	case handle := <-done:
		c.JSON(http.StatusOK, handle)
	case <-c.Request.Context().Done():
		c.Status(http.StatusRequestTimeout)
	}
}

func (h *MediaHandler) GetImage(c *gin.Context) {
	h.mu.Lock()
	v, ok := h.imageViews[c.Param("slot")]
	h.mu.Unlock()
	if !ok {
		c.JSON(http.StatusOK, media.Handle{})
		return
	}
	c.JSON(http.StatusOK, v.Handle())
}

func (h *MediaHandler) CloseImage(c *gin.Context) {
	h.mu.Lock()
	v, ok := h.imageViews[c.Param("slot")]
	delete(h.imageViews, c.Param("slot"))
	h.mu.Unlock()
	if ok {
		v.Close()
	}
	c.Status(http.StatusNoContent)
}

func (h *MediaHandler) SetVideo(c *gin.Context) {
	var req sourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewHTTP(http.StatusBadRequest, "invalid request data"))
		return
	}
	c.JSON(http.StatusOK, h.videoView(c.Param("slot")).SetSource(req.Source))
}

func (h *MediaHandler) GetVideo(c *gin.Context) {
	c.JSON(http.StatusOK, h.videoView(c.Param("slot")).State())
}

func (h *MediaHandler) VideoPlaybackError(c *gin.Context) {
	var req playbackErrorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewHTTP(http.StatusBadRequest, "invalid request data"))
		return
	}
	c.JSON(http.StatusOK, h.videoView(c.Param("slot")).ReportPlaybackError(req.Code))
}

func (h *MediaHandler) VideoPlaybackReady(c *gin.Context) {
	c.JSON(http.StatusOK, h.videoView(c.Param("slot")).PlaybackReady())
}

// DownloadVideo streams the video back as an attachment, or stores it in the
// download directory when ?target=disk.
func (h *MediaHandler) DownloadVideo(c *gin.Context) {
	view := h.videoView(c.Param("slot"))

	var saver mediaUC.Saver = &attachmentSaver{c: c}
	if c.Query("target") == "disk" && h.diskSaver != nil {
		saver = h.diskSaver
	}

	state := view.Download(c.Request.Context(), saver)
	if c.Writer.Written() {
		return
	}
	status := http.StatusOK
	if state.DownloadAdvisory != "" {
		status = http.StatusBadGateway
	}
	c.JSON(status, state)
}

func (h *MediaHandler) CloseVideo(c *gin.Context) {
	h.mu.Lock()
	v, ok := h.videoViews[c.Param("slot")]
	delete(h.videoViews, c.Param("slot"))
	h.mu.Unlock()
	if ok {
		v.Close()
	}
	c.Status(http.StatusNoContent)
}

// ServeBlob answers object URLs handed out by the registry while they are live.
func (h *MediaHandler) ServeBlob(c *gin.Context) {
	blob, err := h.blobs.Open(blobstore.Scheme + c.Param("id"))
	if err != nil {
		c.Error(apperror.NewHTTP(http.StatusNotFound, err.Error()))
		return
	}
	c.Header("Content-Type", blob.ContentType)
	c.Header("Cache-Control", "no-store")
	http.ServeContent(c.Writer, c.Request, "", time.Time{}, blob.Body)
}

type attachmentSaver struct {
	c *gin.Context
}

func (s *attachmentSaver) Save(ctx context.Context, name string, blob *media.Blob) error {
	s.c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	s.c.DataFromReader(http.StatusOK, blob.Size, blob.ContentType, blob.Body, nil)
	return nil
}
