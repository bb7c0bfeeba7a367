package controller

import (
	"net/http"

	"github.com/microcosm-cc/astral/models"
)

// NotFoundHandler answers any route that is not registered
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	c, status, err := models.MakeContext(r, w)
	if err != nil {
		c.RespondWithErrorDetail(err, status)
		return
	}

	if c.GetHTTPMethod() == http.MethodOptions {
		c.RespondWithOptions([]string{"OPTIONS"})
		return
	}

	c.RespondWithNotFound()
}
