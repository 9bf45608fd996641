package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/suite"

	"github.com/melevanoronha/admin-console/adapters/api"
	"github.com/melevanoronha/admin-console/adapters/blobstore"
	"github.com/melevanoronha/admin-console/adapters/event"
	"github.com/melevanoronha/admin-console/adapters/persistence"
	authUC "github.com/melevanoronha/admin-console/internal/application/usecase/auth"
	mediaUC "github.com/melevanoronha/admin-console/internal/application/usecase/media"
	"github.com/melevanoronha/admin-console/pkg/auth"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type ConsoleTestSuite struct {
	suite.Suite
	backend  *httptest.Server
	router   *gin.Engine
	session  *authUC.Session
	blobs    *blobstore.Registry
	reject   atomic.Bool
	lastBody atomic.Pointer[string]
}

type consoleBody struct {
	State struct {
		Items       []map[string]any  `json:"items"`
		FormOpen    bool              `json:"formOpen"`
		FieldErrors map[string]string `json:"fieldErrors"`
	} `json:"state"`
	Toasts []struct {
		Level   string `json:"level"`
		Message string `json:"message"`
	} `json:"toasts"`
	Redirect string `json:"redirect"`
}

func (s *ConsoleTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *ConsoleTestSuite) SetupTest() {
	s.reject.Store(false)
	s.lastBody.Store(nil)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string `json:"username"`
			Senha    string `json:"senha"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Senha != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid username or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"accessToken":"tok","refreshToken":"ref"}`))
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/calculadora-viagem/aeroportos", func(w http.ResponseWriter, r *http.Request) {
		if s.reject.Load() || r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[{"id":1,"cidade":"Recife","nomeAeroporto":"Guararapes","codigoIATA":"REC"}]`))
	})
	mux.HandleFunc("POST /api/calculadora-viagem/aeroportos", func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body := string(data)
		s.lastBody.Store(&body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":2,"cidade":"Natal","nomeAeroporto":"Sao Goncalo","codigoIATA":"NAT"}`))
	})
	mux.HandleFunc("GET /uploads/a.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngBytes)
	})
	mux.HandleFunc("GET "+mediaUC.ProxyPath, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("url") != "/uploads/tour clip.wmv" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", mediaUC.MIMEWMV)
		_, _ = w.Write([]byte("wmv-bytes"))
	})
	s.backend = httptest.NewServer(mux)

	log := logger.NewNopLogger()
	s.session = authUC.NewSession(persistence.NewMemorySessionStore(), log)
	s.Require().NoError(s.session.Init(context.Background()))

	nav := NewLoginNavigator(log)
	toasts := NewToastQueue(log)
	client := api.NewClient(api.Config{BaseURL: s.backend.URL}, s.session, nav, log)
	authAPI := api.NewAuthAPI(client)

	s.blobs = blobstore.NewRegistry(1<<20, log)
	images := mediaUC.NewImageLoader(s.backend.URL, client.HTTP(), s.session, s.blobs, 1<<20, log)
	downloader := mediaUC.NewDownloader(s.backend.URL, client.HTTP(), s.blobs, 1<<20, log)
	registry := api.NewCatalogRegistry(client, toasts, event.NewNoopPublisher(log), log)

	s.router = NewRouter(RouterDeps{
		Auth:    NewAuthHandler(authUC.NewLoginUseCase(authAPI, s.session, log), authUC.NewLogoutUseCase(authAPI, s.session, log), s.session, nav),
		Catalog: NewCatalogHandler(registry, toasts, nav),
		Media:   NewMediaHandler(s.backend.URL, images, downloader, s.blobs, nil, log),
		Session: s.session,
		Refresh: authUC.NewRefreshUseCase(authAPI, s.session, auth.NewTokenInspector(), log),
		Logger:  log,
	})
}

func (s *ConsoleTestSuite) TearDownTest() {
	s.backend.Close()
}

func (s *ConsoleTestSuite) do(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ConsoleTestSuite) login() {
	w := s.do(http.MethodPost, "/console/login", strings.NewReader(`{"username":"admin","senha":"secret"}`), "application/json")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
}

func (s *ConsoleTestSuite) decode(w *httptest.ResponseRecorder) consoleBody {
	var body consoleBody
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func (s *ConsoleTestSuite) TestPrivateRoutesRequireSession() {
	w := s.do(http.MethodGet, "/console/catalog/aeroportos", nil, "")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Contains(w.Body.String(), LoginRoute)

	w = s.do(http.MethodGet, "/console/session", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"authenticated":false,"redirect":"/console/login"}`, w.Body.String())
}

func (s *ConsoleTestSuite) TestLoginFailureKeepsOperatorSignedOut() {
	w := s.do(http.MethodPost, "/console/login", strings.NewReader(`{"username":"admin","senha":"nope"}`), "application/json")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Contains(w.Body.String(), "invalid username or password")
	s.False(s.session.Authenticated())
}

func (s *ConsoleTestSuite) TestListAfterLogin() {
	s.login()

	w := s.do(http.MethodGet, "/console/catalog/aeroportos?search=rec", nil, "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	body := s.decode(w)
	s.Require().Len(body.State.Items, 1)
	s.Equal("Guararapes", body.State.Items[0]["nomeAeroporto"])
	s.Empty(body.Toasts)
}

func (s *ConsoleTestSuite) TestUnknownEntity() {
	s.login()
	w := s.do(http.MethodGet, "/console/catalog/unknown", nil, "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ConsoleTestSuite) TestSubmitCreatesRecord() {
	s.login()
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/console/catalog/aeroportos/form", nil, "").Code)

	form := url.Values{"cidade": {"Natal"}, "nomeAeroporto": {"Sao Goncalo"}, "codigoIATA": {"NAT"}}
	w := s.do(http.MethodPost, "/console/catalog/aeroportos/submit", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	body := s.decode(w)
	s.False(body.State.FormOpen)
	s.Require().Len(body.Toasts, 1)
	s.Equal("success", body.Toasts[0].Level)
	s.Equal("Airport created successfully", body.Toasts[0].Message)
	s.JSONEq(`{"cidade":"Natal","nomeAeroporto":"Sao Goncalo","codigoIATA":"NAT"}`, *s.lastBody.Load())
}

func (s *ConsoleTestSuite) TestSubmitRejectsIncompleteForm() {
	s.login()
	s.do(http.MethodPost, "/console/catalog/aeroportos/form", nil, "")

	form := url.Values{"cidade": {"Natal"}}
	w := s.do(http.MethodPost, "/console/catalog/aeroportos/submit", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	body := s.decode(w)
	s.Contains(body.State.FieldErrors, "nomeAeroporto")
	s.Contains(body.State.FieldErrors, "codigoIATA")
	s.Require().Len(body.Toasts, 1)
	s.Equal("please fix the form errors", body.Toasts[0].Message)
	s.Nil(s.lastBody.Load())
}

func (s *ConsoleTestSuite) TestBackendRejectionRedirectsToLogin() {
	s.login()
	s.reject.Store(true)

	w := s.do(http.MethodGet, "/console/catalog/aeroportos", nil, "")
	s.Equal(http.StatusUnauthorized, w.Code)
	body := s.decode(w)
	s.Equal(LoginRoute, body.Redirect)
	s.False(s.session.Authenticated())
}

func (s *ConsoleTestSuite) TestImageSlotLifecycle() {
	s.login()

	w := s.do(http.MethodPut, "/console/media/images/hero", strings.NewReader(`{"source":"/uploads/a.png"}`), "application/json")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var handle struct {
		ObjectURL string `json:"objectUrl"`
		State     string `json:"state"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &handle))
	s.Equal("ready", handle.State)
	s.Equal(1, s.blobs.Live())

	w = s.do(http.MethodGet, blobstore.Path(handle.ObjectURL), nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal("image/png", w.Header().Get("Content-Type"))
	s.True(bytes.Equal(pngBytes, w.Body.Bytes()))

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/console/media/images/hero", nil, "").Code)
	s.Equal(0, s.blobs.Live())
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, blobstore.Path(handle.ObjectURL), nil, "").Code)
}

func (s *ConsoleTestSuite) TestVideoDownloadAsAttachment() {
	s.login()

	w := s.do(http.MethodPut, "/console/media/videos/tour", strings.NewReader(`{"source":"/uploads/tour clip.wmv"}`), "application/json")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"showDownload":true`)

	w = s.do(http.MethodPost, "/console/media/videos/tour/download", nil, "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(`attachment; filename="tour clip.wmv"`, w.Header().Get("Content-Disposition"))
	s.Equal("wmv-bytes", w.Body.String())
	s.Equal(0, s.blobs.Live())

	w = s.do(http.MethodPost, "/console/media/videos/tour/playback-error", strings.NewReader(`{"code":4}`), "application/json")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"category":"unsupported"`)
}

func (s *ConsoleTestSuite) TestLogoutClearsSession() {
	s.login()
	w := s.do(http.MethodPost, "/console/logout", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.False(s.session.Authenticated())
}

func TestConsoleTestSuite(t *testing.T) {
	suite.Run(t, new(ConsoleTestSuite))
}
