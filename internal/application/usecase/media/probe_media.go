package media

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/melevanoronha/admin-console/internal/application/service"
	"github.com/melevanoronha/admin-console/internal/domain/catalog"
	"github.com/melevanoronha/admin-console/internal/domain/media"
	"github.com/melevanoronha/admin-console/pkg/apperror"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

// LinkSource resolves the media referenced by a stored record.
type LinkSource interface {
	MediaLinks(ctx context.Context, entity string, id catalog.ID) (catalog.MediaLinks, error)
}

type ProbeFailure struct {
	Source string     `json:"source"`
	Kind   media.Kind `json:"kind"`
	Reason string     `json:"reason"`
}

type ProbeReport struct {
	Entity   string         `json:"entity"`
	ID       string         `json:"id"`
	Checked  int            `json:"checked"`
	Failures []ProbeFailure `json:"failures,omitempty"`
}

// ProbeMediaUseCase checks that every media link of a changed record can be
// loaded the way the console would load it.
type ProbeMediaUseCase struct {
	links  LinkSource
	images *ImageLoader
	http   Doer
	logger logger.Logger
}

func NewProbeMediaUseCase(links LinkSource, images *ImageLoader, doer Doer, log logger.Logger) *ProbeMediaUseCase {
	return &ProbeMediaUseCase{links: links, images: images, http: doer, logger: log}
}

func (uc *ProbeMediaUseCase) Execute(ctx context.Context, event service.ContentEvent) (*ProbeReport, error) {
	l := uc.logger.With(zap.String("entity", event.Entity), zap.String("id", event.ID), zap.String("event_type", string(event.EventType)))
	l.Info("Worker UseCase probing media")

	if event.EventType == service.ContentDeleted || event.ID == "" {
		l.Info("Nothing to probe, skipping event")
		return nil, nil
	}

	links, err := uc.links.MediaLinks(ctx, event.Entity, catalog.ID(event.ID))
	if err != nil {
		if appErr, ok := apperror.As(err); ok && appErr.Status == http.StatusNotFound {
			l.Warn("Record not found, skipping event")
			return nil, nil
		}
		return nil, err
	}

	report := &ProbeReport{Entity: event.Entity, ID: event.ID}
	for _, src := range append(append([]string{}, links.Images...), links.Documents...) {
		report.Checked++
		if _, err := uc.images.Fetch(ctx, src); err != nil {
			report.Failures = append(report.Failures, ProbeFailure{Source: src, Kind: media.KindImage, Reason: err.Error()})
		}
	}
	for _, src := range links.Videos {
		report.Checked++
		if err := uc.probeVideo(ctx, src); err != nil {
			report.Failures = append(report.Failures, ProbeFailure{Source: src, Kind: media.KindVideo, Reason: err.Error()})
		}
	}

	if len(report.Failures) > 0 {
		l.Warn("Record has unavailable media", zap.Int("checked", report.Checked), zap.Int("failed", len(report.Failures)))
	} else {
		l.Info("All media available", zap.Int("checked", report.Checked))
	}
	return report, nil
}

// probeVideo asks for the first byte only so the probe never buffers a whole video.
func (uc *ProbeMediaUseCase) probeVideo(ctx context.Context, source string) error {
	target, err := VideoURL(uc.images.origin, source)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Range", "bytes=0-0")

	resp, err := uc.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("video unavailable: status %d", resp.StatusCode)
	}
	return nil
}
