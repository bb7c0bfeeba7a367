package controller

import (
	"net/http"

	h "github.com/microcosm-cc/astral/helpers"
	"github.com/microcosm-cc/astral/models"
)

// RootHandler is a web handler
func RootHandler(w http.ResponseWriter, r *http.Request) {
	c, status, err := models.MakeContext(r, w)
	if err != nil {
		c.RespondWithErrorDetail(err, status)
		return
	}

	switch c.GetHTTPMethod() {
	case http.MethodOptions:
		c.RespondWithOptions([]string{"OPTIONS", "GET"})
		return
	case http.MethodGet:
		c.RespondWithData(
			h.LinkArrayType{Links: []h.LinkType{
				h.GetLink("chart", "Render a natal chart as JSON or SVG", h.APITypeChart),
				h.GetLink("chart", "Render a natal chart as JSON or SVG", h.APITypeChartV1),
				h.GetLink("cache", "Cache statistics", h.APITypeCacheInfo),
				h.GetLink("cacheConfig", "Cache limits", h.APITypeCacheConfig),
				h.GetLink("version", "Build information", h.APITypeVersion),
			}},
		)
		return
	default:
		c.RespondWithStatus(http.StatusMethodNotAllowed)
		return
	}
}
