package server

import (
	"net/http"

	"github.com/microcosm-cc/astral/cache"
	"github.com/microcosm-cc/astral/chart"
	"github.com/microcosm-cc/astral/controller"
	h "github.com/microcosm-cc/astral/helpers"
)

// handlers maps each route to the handler that serves it
func handlers(
	loader *cache.Loader,
	gen chart.Generator,
) map[string]func(http.ResponseWriter, *http.Request) {

	charts := &controller.ChartController{Loader: loader, Generator: gen}
	caches := &controller.CacheController{Cache: loader.Cache()}

	return map[string]func(http.ResponseWriter, *http.Request){
		"/": controller.RootHandler,

		h.APITypeChart:   charts.Handler,
		h.APITypeChartV1: charts.Handler,

		h.APITypeCache:       caches.Handler,
		h.APITypeCacheInfo:   caches.InfoHandler,
		h.APITypeCacheConfig: caches.ConfigHandler,

		h.APITypeVersion: controller.VersionHandler,
	}
}
