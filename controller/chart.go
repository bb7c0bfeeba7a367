package controller

import (
	"context"
	"net/http"

	"github.com/golang/glog"

	"github.com/microcosm-cc/astral/cache"
	"github.com/microcosm-cc/astral/chart"
	e "github.com/microcosm-cc/astral/errors"
	"github.com/microcosm-cc/astral/models"
)

// ChartController serves rendered charts, computing them only on a cache miss
type ChartController struct {
	Loader    *cache.Loader
	Generator chart.Generator
}

// Handler is a web handler
func (ctl *ChartController) Handler(w http.ResponseWriter, r *http.Request) {
	c, status, err := models.MakeContext(r, w)
	if err != nil {
		c.RespondWithErrorDetail(err, status)
		return
	}

	switch c.GetHTTPMethod() {
	case http.MethodOptions:
		c.RespondWithOptions([]string{"OPTIONS", "HEAD", "GET"})
		return
	case http.MethodGet, http.MethodHead:
		ctl.Read(c)
	default:
		c.RespondWithStatus(http.StatusMethodNotAllowed)
		return
	}
}

// Read handles GET
func (ctl *ChartController) Read(c *models.Context) {
	m, status, err := models.ParseSubject(c.Request.URL.Query())
	if err != nil {
		c.RespondWithErrorDetail(err, status)
		return
	}

	key, err := cache.DeriveKey(m.Params())
	if err != nil {
		c.RespondWithErrorDetail(
			e.New("controller.ChartController.Read", e.UnsupportedParameter, err.Error()),
			http.StatusBadRequest,
		)
		return
	}

	entry, cacheStatus, err := ctl.Loader.Get(
		c.Request.Context(),
		key,
		func(ctx context.Context) ([]byte, cache.Kind, error) {
			return ctl.Generator.Generate(ctx, m)
		},
	)
	if err != nil {
		glog.Errorf("Generate(%s) %+v", key, err)
		c.RespondWithErrorDetail(
			e.New(
				"controller.ChartController.Read",
				e.ComputationFailed,
				"Chart generation failed: "+err.Error(),
			),
			http.StatusInternalServerError,
		)
		return
	}

	c.RespondWithArtifact(entry.Payload, entry.Kind.ContentType(), cacheStatus.String())
}
