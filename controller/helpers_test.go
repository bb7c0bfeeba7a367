package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/microcosm-cc/astral/cache"
	h "github.com/microcosm-cc/astral/helpers"
	"github.com/microcosm-cc/astral/models"
)

const adaQuery = "name=Ada+Lovelace&year=1815&month=12&day=10&hour=6&minute=0" +
	"&city=London&lng=-0.1278&lat=51.5074&tz_str=Europe/London"

// fakeGenerator renders a fixed payload and counts how often it was asked to
type fakeGenerator struct {
	calls atomic.Int64
	fail  bool
}

func (g *fakeGenerator) Generate(_ context.Context, m models.Subject) ([]byte, cache.Kind, error) {
	g.calls.Add(1)
	if g.fail {
		return nil, 0, errors.New("renderer exploded")
	}
	if m.SVG {
		return []byte(`<svg xmlns="http://www.w3.org/2000/svg"><text>` + m.Name + `</text></svg>`),
			cache.KindSVG, nil
	}
	return []byte(`{"name":"` + m.Name + `"}`), cache.KindJSON, nil
}

func newTestRouter(t *testing.T, limits cache.Limits, gen *fakeGenerator) (*mux.Router, *cache.Cache) {
	t.Helper()

	c, err := cache.New(limits)
	require.NoError(t, err)

	charts := &ChartController{Loader: cache.NewLoader(c, true), Generator: gen}
	caches := &CacheController{Cache: c}

	r := mux.NewRouter()
	r.HandleFunc("/", RootHandler)
	r.HandleFunc(h.APITypeChart, charts.Handler)
	r.HandleFunc(h.APITypeChartV1, charts.Handler)
	r.HandleFunc(h.APITypeCache, caches.Handler)
	r.HandleFunc(h.APITypeCacheInfo, caches.InfoHandler)
	r.HandleFunc(h.APITypeCacheConfig, caches.ConfigHandler)
	r.HandleFunc(h.APITypeVersion, VersionHandler)
	r.NotFoundHandler = http.HandlerFunc(NotFoundHandler)

	return r, c
}

func do(r http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// envelope is models.StandardResponse with the data left raw
type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
	Errors []string        `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}
