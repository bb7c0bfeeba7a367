package models

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
)

// Usage encapsulates a request and the key metrics and info around the request
// such as the time spent serving it, who asked for it, the endpoint, etc
type Usage struct {
	Method        string
	EndPointURL   string
	UserAgent     string
	HTTPStatus    int
	IPAddr        string
	ContentLength int
	Cache         string
	TimeSpent     time.Duration
	Error         string
}

// MakeUsage captures what SendUsage logs. It must be called before the
// response is written, SendUsage may then run on its own goroutine.
func MakeUsage(
	c *Context,
	statusCode int,
	contentLength int,
	cacheStatus string,
	errors []string,
) Usage {
	m := Usage{}

	m.Method = c.GetHTTPMethod()

	// Querystrings carry birth data, keep them out of the logs
	m.EndPointURL = c.Request.URL.Path

	// Only log the last two sections of the IP address
	ip := c.Request.Header.Get("X-Real-IP")
	if ip == "" && c.IP != nil {
		ip = c.IP.String()
	}
	if strings.Contains(ip, ".") {
		parts := strings.Split(ip, ".")
		m.IPAddr = strings.Join(parts[len(parts)-2:], ".")
	} else if strings.Contains(ip, ":") {
		parts := strings.Split(ip, ":")
		m.IPAddr = strings.Join(parts[len(parts)-2:], ":")
	}

	m.UserAgent = c.Request.UserAgent()
	m.HTTPStatus = statusCode
	m.ContentLength = contentLength
	m.Cache = cacheStatus
	m.TimeSpent = time.Since(c.StartTime)

	if len(errors) > 0 {
		m.Error = strings.Join(errors, ", ")
	}

	return m
}

// SendUsage is called at the end of processing a request and logs info about
// the request for analysis later
func SendUsage(m Usage) {
	glog.Infof(
		"%s %s %d %s cache=%s in %s ip=%s ua=%q %s",
		m.Method,
		m.EndPointURL,
		m.HTTPStatus,
		humanize.Bytes(uint64(m.ContentLength)),
		m.Cache,
		m.TimeSpent,
		m.IPAddr,
		m.UserAgent,
		m.Error,
	)
}
