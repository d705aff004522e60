package httputil

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// APIVersion is reported in every error body
const APIVersion = "1.0"

// ContentTypeProblem is the media type of error responses
const ContentTypeProblem = "application/problem+json"

// ErrorDetail is one cause of an error response
type ErrorDetail struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// ErrorBody describes an error response
type ErrorBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Errors  []ErrorDetail `json:"errors"`
}

// ErrorJSON is the envelope written for every non-2xx gateway response
type ErrorJSON struct {
	APIVersion string    `json:"apiVersion"`
	Error      ErrorBody `json:"error"`
}

// StatusCode renders a status as "404 NOT_FOUND"
func StatusCode(status int) string {
	text := strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	return strconv.Itoa(status) + " " + text
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteCreated writes a successful creation response (201 Created) with JSON data
func WriteCreated(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusCreated, data)
}

// WriteSuccess writes a successful response (200 OK) with JSON data
func WriteSuccess(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, data)
}

// WriteNoContent writes a successful response with no content (204 No Content)
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteProblem writes an error envelope. Details without a domain get the
// request path.
func WriteProblem(w http.ResponseWriter, r *http.Request, status int, message string, details ...ErrorDetail) {
	domain := ""
	if r != nil {
		domain = r.URL.Path
	}
	errs := make([]ErrorDetail, 0, len(details))
	for _, d := range details {
		if d.Domain == "" {
			d.Domain = domain
		}
		errs = append(errs, d)
	}

	w.Header().Set("Content-Type", ContentTypeProblem)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorJSON{
		APIVersion: APIVersion,
		Error: ErrorBody{
			Code:    StatusCode(status),
			Message: message,
			Errors:  errs,
		},
	})
}

// WriteBadRequest writes a 400 with one detail per violation
func WriteBadRequest(w http.ResponseWriter, r *http.Request, message string, details ...ErrorDetail) {
	WriteProblem(w, r, http.StatusBadRequest, message, details...)
}

// WriteUnauthorized writes a 401
func WriteUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	WriteProblem(w, r, http.StatusUnauthorized, message,
		ErrorDetail{Reason: "Unauthorized", Message: message})
}

// WriteNotFound writes a 404
func WriteNotFound(w http.ResponseWriter, r *http.Request, reason, message string) {
	WriteProblem(w, r, http.StatusNotFound, message,
		ErrorDetail{Reason: reason, Message: message})
}

// WriteConflict writes a 409
func WriteConflict(w http.ResponseWriter, r *http.Request, reason, message string) {
	WriteProblem(w, r, http.StatusConflict, message,
		ErrorDetail{Reason: reason, Message: message})
}

// WriteTooManyRequests writes a 429
func WriteTooManyRequests(w http.ResponseWriter, r *http.Request) {
	WriteProblem(w, r, http.StatusTooManyRequests, "Too many requests",
		ErrorDetail{Reason: "RateLimited", Message: "request rate limit exceeded"})
}

// WriteBadGateway writes a 502 for an unreachable backend
func WriteBadGateway(w http.ResponseWriter, r *http.Request, message string) {
	WriteProblem(w, r, http.StatusBadGateway, message,
		ErrorDetail{Reason: "UpstreamUnavailable", Message: message})
}

// WriteInternalError writes a 500. The cause is not exposed to the client.
func WriteInternalError(w http.ResponseWriter, r *http.Request) {
	WriteProblem(w, r, http.StatusInternalServerError, "Internal server error",
		ErrorDetail{Reason: "InternalError", Message: "unexpected error"})
}
