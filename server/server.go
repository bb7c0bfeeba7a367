package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/robfig/cron"

	"github.com/microcosm-cc/astral/cache"
	"github.com/microcosm-cc/astral/chart"
	"github.com/microcosm-cc/astral/controller"
)

// NewRouter registers every route against a new router
func NewRouter(loader *cache.Loader, gen chart.Generator) *mux.Router {
	r := mux.NewRouter()

	for url, handler := range handlers(loader, gen) {
		r.HandleFunc(url, handler)
	}

	r.NotFoundHandler = http.HandlerFunc(controller.NotFoundHandler)

	return r
}

// StartServer owns the http process and cron jobs
func StartServer(port int64, loader *cache.Loader, gen chart.Generator, js Jobs) {

	// Set up the cron jobs
	c := cron.New()
	for _, j := range js.list(loader.Cache()) {
		if err := c.AddFunc(j.schedule, j.run); err != nil {
			glog.Fatalf("cron.AddFunc(%q) %+v", j.schedule, err)
		}
	}
	c.Start()
	defer c.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           NewRouter(loader, gen),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the HTTP server
	glog.Fatal(srv.ListenAndServe())
}
