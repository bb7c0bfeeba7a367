package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"

	"github.com/microcosm-cc/astral/cache"
	e "github.com/microcosm-cc/astral/errors"
	h "github.com/microcosm-cc/astral/helpers"
	"github.com/microcosm-cc/astral/models"
)

// CacheController exposes the chart cache for inspection and tuning
type CacheController struct {
	Cache *cache.Cache
}

// CacheInfo is the cache stats plus a human readable size
type CacheInfo struct {
	cache.Stats
	CacheSizeHuman string  `json:"cacheSizeHuman"`
	CacheSizeMB    float64 `json:"cacheSizeMb"`
}

// LimitsRequest is the body of a cache config update. Omitted fields are left
// as they are.
type LimitsRequest struct {
	MaxItems     *int64 `json:"maxItems"`
	MaxSizeBytes *int64 `json:"maxSizeBytes"`
}

// InfoHandler is a web handler
func (ctl *CacheController) InfoHandler(w http.ResponseWriter, r *http.Request) {
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
		ctl.Read(c)
	default:
		c.RespondWithStatus(http.StatusMethodNotAllowed)
		return
	}
}

// Handler is a web handler
func (ctl *CacheController) Handler(w http.ResponseWriter, r *http.Request) {
	c, status, err := models.MakeContext(r, w)
	if err != nil {
		c.RespondWithErrorDetail(err, status)
		return
	}

	switch c.GetHTTPMethod() {
	case http.MethodOptions:
		c.RespondWithOptions([]string{"OPTIONS", "GET", "DELETE"})
		return
	case http.MethodGet:
		ctl.Read(c)
	case http.MethodDelete:
		ctl.Delete(c)
	default:
		c.RespondWithStatus(http.StatusMethodNotAllowed)
		return
	}
}

// ConfigHandler is a web handler
func (ctl *CacheController) ConfigHandler(w http.ResponseWriter, r *http.Request) {
	c, status, err := models.MakeContext(r, w)
	if err != nil {
		c.RespondWithErrorDetail(err, status)
		return
	}

	switch c.GetHTTPMethod() {
	case http.MethodOptions:
		c.RespondWithOptions([]string{"OPTIONS", "GET", "PUT", "PATCH"})
		return
	case http.MethodGet:
		c.RespondWithData(ctl.Cache.Limits())
	case http.MethodPut, http.MethodPatch:
		ctl.Update(c)
	default:
		c.RespondWithStatus(http.StatusMethodNotAllowed)
		return
	}
}

// Read handles GET
func (ctl *CacheController) Read(c *models.Context) {
	s := ctl.Cache.Stats()

	c.RespondWithData(CacheInfo{
		Stats:          s,
		CacheSizeHuman: humanize.Bytes(uint64(s.TotalSizeBytes)),
		CacheSizeMB:    float64(s.TotalSizeBytes) / (1024 * 1024),
	})
}

// Delete handles DELETE
func (ctl *CacheController) Delete(c *models.Context) {
	ctl.Cache.Clear()
	c.RespondWithOK()
}

// Update handles PUT and PATCH
func (ctl *CacheController) Update(c *models.Context) {
	req, status, err := readLimitsRequest(c)
	if err != nil {
		c.RespondWithErrorDetail(err, status)
		return
	}

	if req.MaxItems == nil && req.MaxSizeBytes == nil {
		c.RespondWithErrorDetail(
			e.New(
				"controller.CacheController.Update",
				e.InvalidContent,
				"Supply maxItems and/or maxSizeBytes",
			),
			http.StatusBadRequest,
		)
		return
	}

	limits, err := ctl.Cache.UpdateLimits(req.MaxItems, req.MaxSizeBytes)
	if err != nil {
		if !errors.Is(err, cache.ErrInvalidLimit) {
			glog.Errorf("UpdateLimits() %+v", err)
		}
		c.RespondWithErrorDetail(
			e.New("controller.CacheController.Update", e.InvalidLimit, err.Error()),
			http.StatusBadRequest,
		)
		return
	}

	c.RespondWithData(limits)
}

// readLimitsRequest accepts either a JSON body or form/querystring values
// named max_items and max_size_bytes
func readLimitsRequest(c *models.Context) (LimitsRequest, int, error) {
	var req LimitsRequest

	if strings.HasPrefix(c.Request.Header.Get("Content-Type"), "application/json") {
		if err := c.Fill(&req); err != nil {
			return req, http.StatusBadRequest, e.New(
				"controller.readLimitsRequest",
				e.InvalidContent,
				fmt.Sprintf("The body could not be decoded: %s", err.Error()),
			)
		}
		return req, http.StatusOK, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return req, http.StatusBadRequest, e.New(
			"controller.readLimitsRequest",
			e.InvalidContent,
			err.Error(),
		)
	}

	var (
		status int
		err    error
	)

	req.MaxItems, status, err = h.GetOptionalInt64(c.Request.Form, "max_items")
	if err != nil {
		return req, status, e.New("controller.readLimitsRequest", e.UnexpectedType, err.Error())
	}

	req.MaxSizeBytes, status, err = h.GetOptionalInt64(c.Request.Form, "max_size_bytes")
	if err != nil {
		return req, status, e.New("controller.readLimitsRequest", e.UnexpectedType, err.Error())
	}

	return req, http.StatusOK, nil
}
