package models

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	// Zone names are validated without relying on the host zoneinfo
	_ "time/tzdata"

	"github.com/microcosm-cc/astral/cache"
	e "github.com/microcosm-cc/astral/errors"
	h "github.com/microcosm-cc/astral/helpers"
)

// Subject describes a birth chart request
type Subject struct {
	Name   string  `json:"name"`
	Year   int64   `json:"year"`
	Month  int64   `json:"month"`
	Day    int64   `json:"day"`
	Hour   int64   `json:"hour"`
	Minute int64   `json:"minute"`
	City   string  `json:"city"`
	Lng    float64 `json:"lng"`
	Lat    float64 `json:"lat"`
	TZ     string  `json:"tz_str"`
	SVG    bool    `json:"svg"`
}

// ParseSubject reads a Subject from a request querystring and validates it
func ParseSubject(query url.Values) (Subject, int, error) {
	var (
		m      Subject
		status int
		err    error
	)

	strs := []struct {
		key string
		dst *string
	}{
		{"name", &m.Name},
		{"city", &m.City},
		{"tz_str", &m.TZ},
	}
	for _, p := range strs {
		*p.dst, status, err = h.GetRequiredString(query, p.key)
		if err != nil {
			return Subject{}, status, paramError(err)
		}
	}

	ints := []struct {
		key string
		dst *int64
	}{
		{"year", &m.Year},
		{"month", &m.Month},
		{"day", &m.Day},
		{"hour", &m.Hour},
		{"minute", &m.Minute},
	}
	for _, p := range ints {
		*p.dst, status, err = h.GetRequiredInt64(query, p.key)
		if err != nil {
			return Subject{}, status, paramError(err)
		}
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"lng", &m.Lng},
		{"lat", &m.Lat},
	}
	for _, p := range floats {
		*p.dst, status, err = h.GetRequiredFloat64(query, p.key)
		if err != nil {
			return Subject{}, status, paramError(err)
		}
	}

	m.SVG, status, err = h.GetBool(query, "svg", false)
	if err != nil {
		return Subject{}, status, paramError(err)
	}

	m.Name = SanitiseText(m.Name)
	m.City = SanitiseText(m.City)

	status, err = m.Validate()
	if err != nil {
		return Subject{}, status, err
	}

	return m, http.StatusOK, nil
}

func paramError(err error) error {
	code := e.UnexpectedType
	if errors.Is(err, h.ErrRequired) {
		code = e.MissingParameter
	}
	return e.New("models.ParseSubject", code, err.Error())
}

// Validate checks the date, time and location describe a real moment and
// place
func (m Subject) Validate() (int, error) {
	if m.Name == "" {
		return http.StatusBadRequest, e.New(
			"models.Subject.Validate",
			e.MissingParameter,
			"name is empty once markup is removed",
		)
	}

	if m.City == "" {
		return http.StatusBadRequest, e.New(
			"models.Subject.Validate",
			e.MissingParameter,
			"city is empty once markup is removed",
		)
	}

	checks := []struct {
		key      string
		val      int64
		min, max int64
	}{
		{"year", m.Year, 1, 9999},
		{"month", m.Month, 1, 12},
		{"day", m.Day, 1, 31},
		{"hour", m.Hour, 0, 23},
		{"minute", m.Minute, 0, 59},
	}
	for _, c := range checks {
		if c.val < c.min || c.val > c.max {
			return http.StatusBadRequest, e.New(
				"models.Subject.Validate",
				e.OutOfRange,
				fmt.Sprintf("%s (%d) must be between %d and %d", c.key, c.val, c.min, c.max),
			)
		}
	}

	// time.Date normalises 31st February into March, so compare round trip
	d := time.Date(int(m.Year), time.Month(m.Month), int(m.Day), 0, 0, 0, 0, time.UTC)
	if d.Day() != int(m.Day) {
		return http.StatusBadRequest, e.New(
			"models.Subject.Validate",
			e.OutOfRange,
			fmt.Sprintf("%04d-%02d-%02d is not a date", m.Year, m.Month, m.Day),
		)
	}

	if m.Lng < -180 || m.Lng > 180 {
		return http.StatusBadRequest, e.New(
			"models.Subject.Validate",
			e.OutOfRange,
			fmt.Sprintf("lng (%v) must be between -180 and 180", m.Lng),
		)
	}

	if m.Lat < -90 || m.Lat > 90 {
		return http.StatusBadRequest, e.New(
			"models.Subject.Validate",
			e.OutOfRange,
			fmt.Sprintf("lat (%v) must be between -90 and 90", m.Lat),
		)
	}

	if _, err := time.LoadLocation(m.TZ); err != nil || m.TZ == "Local" {
		return http.StatusBadRequest, e.New(
			"models.Subject.Validate",
			e.OutOfRange,
			fmt.Sprintf("tz_str (%s) is not a known time zone", m.TZ),
		)
	}

	return http.StatusOK, nil
}

// Params returns the subject as cache key parameters. Every field that
// changes the rendered output must be here.
func (m Subject) Params() []cache.Param {
	return []cache.Param{
		{Name: "name", Value: m.Name},
		{Name: "year", Value: m.Year},
		{Name: "month", Value: m.Month},
		{Name: "day", Value: m.Day},
		{Name: "hour", Value: m.Hour},
		{Name: "minute", Value: m.Minute},
		{Name: "city", Value: m.City},
		{Name: "lng", Value: m.Lng},
		{Name: "lat", Value: m.Lat},
		{Name: "tz_str", Value: m.TZ},
		{Name: "svg", Value: m.SVG},
	}
}
