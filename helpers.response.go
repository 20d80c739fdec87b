package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// StatusRecorder is a wrapper for http.ResponseWriter. It is used to
// record response details like status code and body size so the stats
// middleware can aggregate per status code counters.
type StatusRecorder struct {
	http.ResponseWriter
	code  int
	bytes int
	wrote bool
}

// NewStatusRecorder provides StatusRecorder with 200 as status code.
func NewStatusRecorder(rw http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{
		ResponseWriter: rw,
		code:           200,
	}
}

// WriteHeader implements http.WriteHeader interface.
func (sr *StatusRecorder) WriteHeader(code int) {
	if !sr.wrote {
		sr.code = code
		sr.wrote = true
		sr.ResponseWriter.WriteHeader(code)
	}
}

// Write implements http.Write interface.
func (sr *StatusRecorder) Write(bytes []byte) (int, error) {
	if !sr.wrote {
		sr.WriteHeader(sr.code)
	}

	n, err := sr.ResponseWriter.Write(bytes)
	sr.bytes += n
	return n, err
}

// Status returns the written status code.
func (sr *StatusRecorder) Status() int {
	return sr.code
}

// Bytes returns bytes written as response body.
func (sr *StatusRecorder) Bytes() int {
	return sr.bytes
}

// Unwrap returns native response writer and used by
// the http.ResponseController during its operation.
func (sr *StatusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// APIError is the data model sent when an error occurred during request processing.
type APIError struct {
	RequestID string      `json:"requestid"`
	Status    int         `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
}

// APIResponse is the data model sent when a request succeed. We use the
// omitempty flag on the `total` field. This helps set the value for
// listing calls only. Same goes for the `location` field which is only
// set by workflows completing with a redirect to another view.
type APIResponse struct {
	RequestID  string      `json:"requestid"`
	Status     int         `json:"status"`
	Message    string      `json:"message"`
	Total      *int        `json:"total,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Location   string      `json:"location,omitempty"`
	Data       interface{} `json:"data"`
}

func NewAPIError(requestid string, status int, message string, data interface{}) *APIError {
	return &APIError{
		RequestID: requestid,
		Status:    status,
		Message:   message,
		Data:      data,
	}
}

func GenericResponse(requestid string, status int, message string, total *int, data interface{}) *APIResponse {
	return &APIResponse{
		RequestID: requestid,
		Status:    status,
		Message:   message,
		Total:     total,
		Data:      data,
	}
}

// PaginatedResponse builds a success response carrying a page of records
// with the pagination details used to fetch the next page.
func PaginatedResponse(requestid string, message string, pagination Pagination, data interface{}) *APIResponse {
	return &APIResponse{
		RequestID:  requestid,
		Status:     http.StatusOK,
		Message:    message,
		Total:      &pagination.Total,
		Pagination: &pagination,
		Data:       data,
	}
}

// RedirectResponse builds a completion response pointing the client at
// another view. The location is sent both in the payload and as the
// standard `Location` header by WriteResponse.
func RedirectResponse(requestid string, message string, location string, data interface{}) *APIResponse {
	return &APIResponse{
		RequestID: requestid,
		Status:    http.StatusSeeOther,
		Message:   message,
		Location:  location,
		Data:      data,
	}
}

// WriteErrorResponse is used to send error response to client. In case the client closes the request,
// it logs the stats with the Nginx non standard status code 499 (Client Closed Request). In case of
// request processing timeout we set the status code to 504 which will be used to log the stats. In
// both cases the timeout middleware already kicked-in and sent a json message to client.
func WriteErrorResponse(ctx context.Context, w http.ResponseWriter, errResp *APIError) error {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			w.WriteHeader(http.StatusGatewayTimeout)
		} else {
			w.WriteHeader(499)
		}
		return ctx.Err()
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(errResp.Status)
	return json.NewEncoder(w).Encode(errResp)
}

// WriteResponse is used to send success api response to client. It sets the status code to 499
// in case client cancelled the request, and to 504 if the request processing timed out.
func WriteResponse(ctx context.Context, w http.ResponseWriter, resp *APIResponse) error {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			w.WriteHeader(http.StatusGatewayTimeout)
		} else {
			w.WriteHeader(499)
		}
		return ctx.Err()
	}
	if len(resp.Location) != 0 {
		w.Header().Set("Location", resp.Location)
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(resp.Status)
	return json.NewEncoder(w).Encode(resp)
}
