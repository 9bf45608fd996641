package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/melevanoronha/admin-console/internal/application/service"
	catalogUC "github.com/melevanoronha/admin-console/internal/application/usecase/catalog"
	"github.com/melevanoronha/admin-console/internal/domain/catalog"
	"github.com/melevanoronha/admin-console/pkg/apperror"
)

const maxFormMemory = 32 << 20

type CatalogHandler struct {
	registry *catalogUC.Registry
	toasts   *ToastQueue
	nav      *LoginNavigator
}

func NewCatalogHandler(registry *catalogUC.Registry, toasts *ToastQueue, nav *LoginNavigator) *CatalogHandler {
	return &CatalogHandler{registry: registry, toasts: toasts, nav: nav}
}

type consoleResponse struct {
	State    catalogUC.Snapshot `json:"state"`
	Toasts   []service.Toast    `json:"toasts"`
	Redirect string             `json:"redirect,omitempty"`
}

func (h *CatalogHandler) Entities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entities": h.registry.Names()})
}

// List loads the entity list. ?filter= changes the category filter and ?search= the local search term.
func (h *CatalogHandler) List(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var err error
	if filter, set := c.GetQuery("filter"); set {
		err = ctl.SetFilter(ctx, filter)
	} else {
		err = ctl.Load(ctx)
	}
	if search, set := c.GetQuery("search"); set {
		ctl.Search(search)
	}
	h.respond(c, ctl, err)
}

func (h *CatalogHandler) State(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	h.respond(c, ctl, nil)
}

func (h *CatalogHandler) ShowForm(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	ctl.ShowForm()
	h.respond(c, ctl, nil)
}

func (h *CatalogHandler) Edit(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	err := ctl.Edit(c.Request.Context(), catalog.ID(c.Param("id")))
	h.respond(c, ctl, err)
}

func (h *CatalogHandler) CloseForm(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	ctl.CloseForm()
	h.respond(c, ctl, nil)
}

// Submit reads the operator's multipart form and creates or updates the record.
func (h *CatalogHandler) Submit(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	values, err := readForm(c)
	if err != nil {
		c.Error(apperror.NewHTTP(http.StatusBadRequest, "invalid form data"))
		return
	}
	err = ctl.Submit(c.Request.Context(), values)
	h.respond(c, ctl, err)
}

func (h *CatalogHandler) Details(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	err := ctl.ViewDetails(c.Request.Context(), catalog.ID(c.Param("id")))
	h.respond(c, ctl, err)
}

func (h *CatalogHandler) CloseDetails(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	ctl.CloseDetails()
	h.respond(c, ctl, nil)
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	err := ctl.Delete(c.Request.Context(), catalog.ID(c.Param("id")))
	h.respond(c, ctl, err)
}

func (h *CatalogHandler) MediaLinks(c *gin.Context) {
	ctl, ok := h.controller(c)
	if !ok {
		return
	}
	links, err := ctl.MediaLinks(c.Request.Context(), catalog.ID(c.Param("id")))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, links)
}

func (h *CatalogHandler) Toasts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"toasts": h.toasts.Drain()})
}

func (h *CatalogHandler) controller(c *gin.Context) (catalogUC.Controller, bool) {
	ctl, ok := h.registry.Get(c.Param("entity"))
	if !ok {
		c.Error(apperror.NewHTTP(http.StatusNotFound, "unknown entity "+c.Param("entity")))
		return nil, false
	}
	return ctl, true
}

// respond always returns the container state with the toasts it raised; err only picks the status.
func (h *CatalogHandler) respond(c *gin.Context, ctl catalogUC.Controller, err error) {
	resp := consoleResponse{State: ctl.Snapshot(), Toasts: h.toasts.Drain()}
	status := http.StatusOK
	if err != nil {
		status = apperror.ToHTTPStatus(err)
	}
	if h.nav.TakeRedirect() {
		resp.Redirect = LoginRoute
	}
	c.JSON(status, resp)
}

func readForm(c *gin.Context) (catalog.FormValues, error) {
	values := catalog.NewFormValues()
	if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			return values, err
		}
		if err := c.Request.ParseForm(); err != nil {
			return values, err
		}
	}
	for name, vs := range c.Request.PostForm {
		for _, v := range vs {
			values.Add(name, v)
		}
	}
	if c.Request.MultipartForm == nil {
		return values, nil
	}
	for name, headers := range c.Request.MultipartForm.File {
		for _, fh := range headers {
			file, err := readPart(fh)
			if err != nil {
				return values, err
			}
			values.AddFile(name, file)
		}
	}
	return values, nil
}

func readPart(fh *multipart.FileHeader) (catalog.File, error) {
	f, err := fh.Open()
	if err != nil {
		return catalog.File{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return catalog.File{}, err
	}
	return catalog.File{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data}, nil
}
