package errors

/*
* Error codes are intended to convey detailed errors internally and to clients.
* These should be combined with the appropriate HTTP status code, but are not
* intended to supercede correct HTTP responses. Therefore there is no error code
* for "not found" because HTTP 404 is sufficient.
*
* Error codes are grouped under HTTP status code. Unless otherwise stated these
* should be returned with HTTP 400.
*
 */

const (

	// HTTP 400 Bad Request.
	// Content does not match Content-Type or unmarshalling error.
	InvalidContent ErrCode = 1
	// A parameter was not of the expected type.
	UnexpectedType ErrCode = 2
	// A parameter was outside the expected range.
	OutOfRange ErrCode = 3
	// A required parameter was not supplied.
	MissingParameter ErrCode = 4
	// A parameter could not be turned into a cache key.
	UnsupportedParameter ErrCode = 5
	// A cache limit was zero or negative.
	InvalidLimit ErrCode = 6

	// HTTP 500 Internal Server Error.
	// The chart renderer failed or produced nothing.
	ComputationFailed ErrCode = 7
)

// AstralError implements the Error interface.
type AstralError struct {
	Function     string  `json:"-"`
	ErrorCode    ErrCode `json:"errorCode"`
	ErrorMessage string  `json:"errorDetail"`
}

type ErrCode uint8

func (e AstralError) Error() string {
	return e.ErrorMessage
}

func New(function string, errCode ErrCode, errMessage string) error {
	return &AstralError{
		Function:     function,
		ErrorCode:    errCode,
		ErrorMessage: errMessage,
	}
}
