package controller

import (
	"net/http"

	"github.com/microcosm-cc/astral/models"
)

var (
	// BuildVersion and BuildDate are set via ldflags during build
	BuildVersion = "development"
	BuildDate    = "unknown"
)

// VersionHandler is a web handler that returns build information
func VersionHandler(w http.ResponseWriter, r *http.Request) {
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
		c.RespondWithData(map[string]string{
			"version": BuildVersion,
			"date":    BuildDate,
		})
		return
	default:
		c.RespondWithStatus(http.StatusMethodNotAllowed)
		return
	}
}
