package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Endpoint names a route advertised by the discovery root.
type Endpoint struct {
	Name string
	Path string
}

// RootHandler serves the discovery document at GET /.
type RootHandler struct {
	endpoints []Endpoint
}

func NewRootHandler(endpoints []Endpoint) *RootHandler {
	return &RootHandler{endpoints: endpoints}
}

// Index lists the public entry points as absolute URLs.
//
// @Summary      API root
// @Tags         root
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       / [get]
func (h *RootHandler) Index(c echo.Context) error {
	base := c.Scheme() + "://" + c.Request().Host
	doc := make(map[string]string, len(h.endpoints))
	for _, ep := range h.endpoints {
		doc[ep.Name] = base + ep.Path + "/"
	}
	return c.JSON(http.StatusOK, doc)
}
