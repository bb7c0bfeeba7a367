package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
)

// Context wraps a single request and its response writer
type Context struct {
	Request        *http.Request
	ResponseWriter http.ResponseWriter
	RouteVars      map[string]string
	StartTime      time.Time
	IP             net.IP
}

// StandardResponse is the envelope every JSON API response is wrapped in
type StandardResponse struct {
	Context string      `json:"context"`
	Status  int         `json:"status"`
	Data    interface{} `json:"data"`
	Errors  []string    `json:"error"`
}

// MakeContext creates the context for a request
func MakeContext(
	request *http.Request,
	responseWriter http.ResponseWriter,
) (
	*Context,
	int,
	error,
) {

	c := new(Context)
	c.Request = request
	c.ResponseWriter = responseWriter
	c.RouteVars = mux.Vars(request)
	c.StartTime = time.Now()
	c.IP = GetRequestIP(request)

	return c, http.StatusOK, nil
}

// GetRequestIP returns the IP address of the remote end of the request
func GetRequestIP(request *http.Request) net.IP {
	host, _, _ := net.SplitHostPort(request.RemoteAddr)
	return net.ParseIP(host)
}

// GetHTTPMethod returns the request method, honouring method overrides on
// POST requests for clients that cannot send PUT, PATCH or DELETE
func (c *Context) GetHTTPMethod() string {
	m := c.Request.Method

	if m == http.MethodPost {
		if c.Request.Header.Get("X-HTTP-Method-Override") != "" {
			m = strings.ToUpper(c.Request.Header.Get("X-HTTP-Method-Override"))
		}
		if c.Request.URL.Query().Get("method") != "" {
			m = strings.ToUpper(c.Request.URL.Query().Get("method"))
		}

		switch m {
		case http.MethodDelete,
			http.MethodGet,
			http.MethodHead,
			http.MethodOptions,
			http.MethodPatch,
			http.MethodPost,
			http.MethodPut:
		default:
			// If it wasn't one of the above then let's just use what we know
			// is safe
			return c.Request.Method
		}
	}

	return m
}

// Respond wraps data in the standard envelope and writes it as JSON
func (c *Context) Respond(
	data interface{},
	statusCode int,
	errors []string,
) error {

	obj := StandardResponse{
		Context: c.Request.URL.Query().Get("context"),
		Status:  statusCode,
		Data:    data,
		Errors:  errors,
	}

	c.ResponseWriter.Header().Set("Access-Control-Allow-Origin", "*")

	// Cache state changes between requests, never let an intermediary keep it
	c.ResponseWriter.Header().Set(`Cache-Control`, `no-cache, max-age=0`)

	output, err := FormatAsJSON(c, obj)
	if err != nil {
		http.Error(c.ResponseWriter, err.Error(), http.StatusInternalServerError)
		return err
	}

	if glog.V(3) {
		go SendUsage(MakeUsage(c, statusCode, len(output), "", errors))
	}

	return c.WriteResponse(output, statusCode)
}

// RespondWithArtifact writes a rendered chart as is, without the envelope
func (c *Context) RespondWithArtifact(
	payload []byte,
	contentType string,
	cacheStatus string,
) error {

	c.ResponseWriter.Header().Set("Content-Type", contentType)
	c.ResponseWriter.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	c.ResponseWriter.Header().Set("Access-Control-Allow-Origin", "*")
	c.ResponseWriter.Header().Set("X-Cache", cacheStatus)

	// The same parameters always render the same chart
	c.ResponseWriter.Header().Set(`Cache-Control`, `public, max-age=300`)

	if glog.V(3) {
		go SendUsage(MakeUsage(c, http.StatusOK, len(payload), cacheStatus, nil))
	}

	return c.WriteResponse(payload, http.StatusOK)
}

// WriteResponse ultimately does the job of writing the response
func (c *Context) WriteResponse(output []byte, statusCode int) error {

	c.ResponseWriter.WriteHeader(statusCode)

	// HEAD requests return no body and are used to check headers
	if c.GetHTTPMethod() == http.MethodHead {
		return nil
	}

	_, err := c.ResponseWriter.Write(output)

	// We only log at error severity when an error is not the result of the
	// client disconnecting. "broken pipe" is a syscall.EPIPE error that
	// indicates client disconnection.
	if err != nil {
		if !errors.Is(err, syscall.EPIPE) {
			glog.Errorf(
				"Error writing %s response to %s : %+v",
				c.GetHTTPMethod(),
				c.Request.URL.String(),
				err,
			)
			return err
		}

		glog.Warningf(
			"Error writing %s response to %s : %+v",
			c.GetHTTPMethod(),
			c.Request.URL.String(),
			err,
		)
		return err
	}

	return nil
}

// RespondWithOptions answers an OPTIONS request
func (c *Context) RespondWithOptions(options []string) error {
	c.ResponseWriter.Header().Set("Allow", strings.Join(options, ","))
	c.ResponseWriter.Header().Set("Access-Control-Allow-Origin", "*")
	c.ResponseWriter.Header().Set("Access-Control-Allow-Methods", strings.Join(options, ","))
	c.ResponseWriter.Header().Set("Content-Length", "0")
	c.ResponseWriter.WriteHeader(http.StatusOK)
	return nil
}

// RespondWithStatus responds with custom status code and an empty
// StandardResponse struct
func (c *Context) RespondWithStatus(statusCode int) error {
	return c.Respond(nil, statusCode, nil)
}

// RespondWithError responds with the specified HTTP status code and adds the
// status description to the errors list
func (c *Context) RespondWithError(statusCode int) error {
	return c.RespondWithErrorMessage(http.StatusText(statusCode), statusCode)
}

// RespondWithErrorMessage responds with custom code and an error message
func (c *Context) RespondWithErrorMessage(
	message string,
	statusCode int,
) error {

	return c.Respond(nil, statusCode, []string{message})
}

// RespondWithErrorDetail responds with detailed error code and message in the
// "data" object.
func (c *Context) RespondWithErrorDetail(err error, statusCode int) error {
	return c.Respond(err, statusCode, []string{err.Error()})
}

// RespondWithData responds with the specified data
func (c *Context) RespondWithData(data interface{}) error {
	return c.Respond(data, http.StatusOK, nil)
}

// RespondWithOK responds with OK status (200) and no data
func (c *Context) RespondWithOK() error {
	return c.RespondWithData(nil)
}

// RespondWithNotFound responds with 404 Not Found
func (c *Context) RespondWithNotFound() error {
	return c.RespondWithError(http.StatusNotFound)
}

// FormatAsJSON marshals the response. With disableBoiler set only the data
// field is rendered.
func FormatAsJSON(c *Context, input StandardResponse) ([]byte, error) {
	var (
		output []byte
		err    error
	)

	if strings.Contains(c.Request.URL.RawQuery, "disableBoiler") ||
		c.Request.Header.Get("X-Disable-Boiler") != "" {

		output, err = json.Marshal(input.Data)
	} else {
		output, err = json.Marshal(input)
	}
	if err != nil {
		return nil, err
	}

	c.ResponseWriter.Header().Set("Content-Type", "application/json")
	c.ResponseWriter.Header().Set("Content-Length", strconv.Itoa(len(output)))

	return output, nil
}

// Fill decodes a JSON request body into v
func (c *Context) Fill(v interface{}) error {
	ct := strings.TrimSpace(strings.Split(c.Request.Header.Get("Content-Type"), ";")[0])
	if ct != "application/json" {
		return fmt.Errorf("cannot decode request for %s data", ct)
	}

	defer c.Request.Body.Close()
	return json.NewDecoder(c.Request.Body).Decode(v)
}
