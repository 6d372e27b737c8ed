package server

// RequestError is a request decoding or validation failure with the HTTP
// status it maps to.
type RequestError struct {
	Message    string
	StatusCode int
}

// Error implements the error interface.
func (e RequestError) Error() string {
	return e.Message
}
