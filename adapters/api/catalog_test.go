package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melevanoronha/admin-console/internal/application/service"
	"github.com/melevanoronha/admin-console/internal/domain/catalog"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

type toastRecorder struct {
	mu     sync.Mutex
	toasts []service.Toast
}

func (r *toastRecorder) Success(msg string) { r.add(service.ToastSuccess, msg) }
func (r *toastRecorder) Error(msg string)   { r.add(service.ToastError, msg) }

func (r *toastRecorder) add(level service.ToastLevel, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, service.Toast{Level: level, Message: msg})
}

func TestCatalog_CreateTipEndToEnd(t *testing.T) {
	var (
		mu        sync.Mutex
		calls     []string
		partNames []string
		fields    map[string][]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, r.Method+" "+r.URL.Path)

		switch r.Method {
		case http.MethodPost:
			require.NoError(t, r.ParseMultipartForm(1<<20))
			fields = r.MultipartForm.Value
			for name := range r.MultipartForm.Value {
				partNames = append(partNames, name)
			}
			for name := range r.MultipartForm.File {
				partNames = append(partNames, name)
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":1,"titulo":"Praia do Sancho"}`)
		case http.MethodGet:
			_, _ = io.WriteString(w, `[{"id":1,"titulo":"Praia do Sancho","linkWhatsapp":"5581999999999"}]`)
		}
	}))
	defer srv.Close()

	toasts := &toastRecorder{}
	client := newTestClient(srv.URL, &fakeSession{token: "t"}, &fakeNavigator{})
	registry := NewCatalogRegistry(client, toasts, nil, logger.NewNopLogger())

	tips, ok := registry.Get("dicas")
	require.True(t, ok)

	tips.ShowForm()
	values := catalog.DicaSchema.Blank()
	values.Set("titulo", "Praia do Sancho")
	values.Set("descricao", "Linda praia")
	values.Set("numeroWhatsapp", "5581999999999")
	values.AddFile("imagem", catalog.File{Name: "sancho.jpg", ContentType: "image/jpeg", Data: []byte("img")})
	values.AddFile("icone", catalog.File{Name: "icone.png", ContentType: "image/png", Data: []byte("ico")})

	require.NoError(t, tips.Submit(context.Background(), values))

	sort.Strings(partNames)
	assert.Equal(t, []string{"POST /api/dicas", "GET /api/dicas"}, calls)
	assert.Equal(t, []string{"descricao", "icone", "imagem", "numeroWhatsapp", "titulo"}, partNames)
	assert.Equal(t, []string{"Praia do Sancho"}, fields["titulo"])
	assert.Equal(t, []string{"Linda praia"}, fields["descricao"])
	assert.Equal(t, []string{"5581999999999"}, fields["numeroWhatsapp"])

	assert.Equal(t, []service.Toast{{Level: service.ToastSuccess, Message: "Tip created successfully"}}, toasts.toasts)

	snap := tips.Snapshot()
	assert.False(t, snap.FormOpen)
	assert.Nil(t, snap.Editing)
	assert.Equal(t, []string{""}, snap.Values["titulo"])
	assert.Equal(t, []string{""}, snap.Values["numeroWhatsapp"])
	items := snap.Items.([]catalog.Dica)
	require.Len(t, items, 1)
	assert.Equal(t, "Praia do Sancho", items[0].Title)
}

func TestCatalog_RegistersEveryEntity(t *testing.T) {
	registry := NewCatalogRegistry(newTestClient("http://localhost", &fakeSession{}, &fakeNavigator{}), &toastRecorder{}, nil, logger.NewNopLogger())
	assert.Equal(t, []string{"dicas", "vida-noturna", "passeios", "restaurantes", "pontos-interesse", "aeroportos"}, registry.Names())
}
