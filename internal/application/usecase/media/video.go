package media

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/melevanoronha/admin-console/internal/domain/media"
	"github.com/melevanoronha/admin-console/pkg/metrics"
)

const (
	ProxyPath        = "/api/public/video"
	MIMEWMV          = "video/x-ms-wmv"
	defaultVideoName = "video.mp4"

	wmvAdvisory = "WMV may not play in the browser. If the video does not start, use the download action."
)

var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".wmv":  MIMEWMV,
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".flv":  "video/x-flv",
}

type PlaybackCategory string

const (
	PlaybackAborted     PlaybackCategory = "aborted"
	PlaybackNetwork     PlaybackCategory = "network"
	PlaybackDecode      PlaybackCategory = "decode"
	PlaybackUnsupported PlaybackCategory = "unsupported"
	PlaybackGeneric     PlaybackCategory = "generic"
)

type PlaybackFailure struct {
	Code     int              `json:"code"`
	Category PlaybackCategory `json:"category"`
	Message  string           `json:"message"`
}

// ClassifyPlaybackError maps a media element error code to what the operator sees.
func ClassifyPlaybackError(code int) PlaybackFailure {
	f := PlaybackFailure{Code: code}
	switch code {
	case 1:
		f.Category, f.Message = PlaybackAborted, "playback aborted"
	case 2:
		f.Category, f.Message = PlaybackNetwork, "network error while loading the video. Check your connection."
	case 3:
		f.Category, f.Message = PlaybackDecode, "video format not supported by the player (possible codec problem)"
	case 4:
		f.Category, f.Message = PlaybackUnsupported, "video format not supported"
	default:
		f.Category, f.Message = PlaybackGeneric, fmt.Sprintf("error %d: format may not be supported", code)
	}
	return f
}

// VideoURL builds the playback URL. Absolute sources go through the backend
// proxy; root-relative ones are served by the backend directly.
func VideoURL(origin, source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", media.ErrEmptySource
	}
	origin = strings.TrimRight(origin, "/")
	if origin == "" {
		return "", media.ErrNoOrigin
	}
	if isAbsolute(source) {
		return ProxyURL(origin, source), nil
	}
	if !strings.HasPrefix(source, "/") {
		source = "/" + source
	}
	return origin + source, nil
}

// ProxyURL escapes source as a single query value, with spaces as %20.
func ProxyURL(origin, source string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(source), "+", "%20")
	return strings.TrimRight(origin, "/") + ProxyPath + "?url=" + escaped
}

// DetectMIME returns the type hint for the extension of the source path, or "".
func DetectMIME(source string) string {
	p := source
	if u, err := url.Parse(source); err == nil && u.Path != "" {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return videoTypes[strings.ToLower(path.Ext(p))]
}

// DownloadName is the last path segment of source without its query, or
// video.mp4 when source has no path separator.
func DownloadName(source string) string {
	if !strings.Contains(source, "/") {
		return defaultVideoName
	}
	name := source[strings.LastIndex(source, "/")+1:]
	if i := strings.Index(name, "?"); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return defaultVideoName
	}
	return name
}

func isAbsolute(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// VideoState is everything the video player shows for one source.
type VideoState struct {
	media.Handle
	MIMEType         string           `json:"mimeType,omitempty"`
	FormatAdvisory   string           `json:"formatAdvisory,omitempty"`
	ShowDownload     bool             `json:"showDownload"`
	Playback         *PlaybackFailure `json:"playback,omitempty"`
	Downloading      bool             `json:"downloading"`
	DownloadAdvisory string           `json:"downloadAdvisory,omitempty"`
}

// PrepareVideo computes the player state for source. No bytes are fetched.
func PrepareVideo(origin, source string) VideoState {
	st := VideoState{Handle: media.Handle{Source: source}}

	target, err := VideoURL(origin, source)
	if err != nil {
		metrics.MediaLoads.WithLabelValues(string(media.KindVideo), "failed").Inc()
		st.State = media.StateFailed
		st.ErrorDetail = err.Error()
		return st
	}
	metrics.MediaLoads.WithLabelValues(string(media.KindVideo), "ready").Inc()

	st.ObjectURL = target
	st.State = media.StateReady
	st.MIMEType = DetectMIME(source)
	if st.MIMEType == MIMEWMV {
		st.FormatAdvisory = wmvAdvisory
		st.ShowDownload = true
	}
	return st
}
