package controller

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microcosm-cc/astral/cache"
	e "github.com/microcosm-cc/astral/errors"
)

var roomy = cache.Limits{MaxItems: 10, MaxSizeBytes: 1 << 20}

func TestChartMissThenHit(t *testing.T) {
	gen := &fakeGenerator{}
	r, _ := newTestRouter(t, roomy, gen)

	first := do(r, http.MethodGet, "/gen?"+adaQuery, "", "")
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, "application/json", first.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"name":"Ada Lovelace"}`, first.Body.String())

	// Both routes and any parameter order resolve to the same entry
	reordered := "tz_str=Europe/London&lat=51.5074&lng=-0.1278&city=London" +
		"&minute=0&hour=6&day=10&month=12&year=1815&name=Ada+Lovelace"
	second := do(r, http.MethodGet, "/api/v1/chart?"+reordered, "", "")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())

	assert.EqualValues(t, 1, gen.calls.Load())
}

func TestChartSVG(t *testing.T) {
	gen := &fakeGenerator{}
	r, c := newTestRouter(t, roomy, gen)

	rec := do(r, http.MethodGet, "/gen?svg=true&"+adaQuery, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<svg"))

	// SVG and JSON renders of one subject are distinct entries
	do(r, http.MethodGet, "/gen?"+adaQuery, "", "")
	assert.EqualValues(t, 2, c.Stats().ItemCount)
	assert.EqualValues(t, 2, gen.calls.Load())
}

func TestChartSVGWords(t *testing.T) {
	gen := &fakeGenerator{}
	r, _ := newTestRouter(t, roomy, gen)

	rec := do(r, http.MethodGet, "/gen?svg=yes&"+adaQuery, "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))

	rec = do(r, http.MethodGet, "/gen?svg=true&"+adaQuery, "", "")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	rec = do(r, http.MethodGet, "/gen?svg=off&"+adaQuery, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.EqualValues(t, 2, gen.calls.Load())
}

func TestChartHead(t *testing.T) {
	r, _ := newTestRouter(t, roomy, &fakeGenerator{})

	rec := do(r, http.MethodHead, "/gen?"+adaQuery, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Empty(t, rec.Body.Bytes())
	assert.NotEmpty(t, rec.Header().Get("Content-Length"))
}

func TestChartBadRequests(t *testing.T) {
	gen := &fakeGenerator{}
	r, c := newTestRouter(t, roomy, gen)

	tests := []struct {
		query string
		code  e.ErrCode
	}{
		{strings.Replace(adaQuery, "name=Ada+Lovelace&", "", 1), e.MissingParameter},
		{strings.Replace(adaQuery, "year=1815", "year=old", 1), e.UnexpectedType},
		{strings.Replace(adaQuery, "month=12", "month=13", 1), e.OutOfRange},
		{strings.Replace(adaQuery, "lat=51.5074", "lat=91", 1), e.OutOfRange},
		{strings.Replace(adaQuery, "Europe/London", "Mars/Olympus", 1), e.OutOfRange},
	}

	for _, tt := range tests {
		rec := do(r, http.MethodGet, "/gen?"+tt.query, "", "")
		require.Equal(t, http.StatusBadRequest, rec.Code, tt.query)

		var body struct {
			Data e.AstralError `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tt.code, body.Data.ErrorCode, tt.query)
	}

	assert.Zero(t, gen.calls.Load())
	assert.Zero(t, c.Stats().ItemCount)
}

func TestChartComputationFailure(t *testing.T) {
	gen := &fakeGenerator{fail: true}
	r, c := newTestRouter(t, roomy, gen)

	rec := do(r, http.MethodGet, "/gen?"+adaQuery, "", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode(t, rec).Errors[0], "renderer exploded")

	// Failures are not cached
	do(r, http.MethodGet, "/gen?"+adaQuery, "", "")
	assert.EqualValues(t, 2, gen.calls.Load())
	assert.Zero(t, c.Stats().ItemCount)
}

func TestChartMethods(t *testing.T) {
	r, _ := newTestRouter(t, roomy, &fakeGenerator{})

	rec := do(r, http.MethodOptions, "/gen", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OPTIONS,HEAD,GET", rec.Header().Get("Allow"))

	rec = do(r, http.MethodPut, "/gen?"+adaQuery, "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
