// internal/utils/response.go
package utils

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/shopkz-search/internal/i18n"
)

var jsonContentType = []string{"application/json; charset=utf-8"}

// PrettyJSON renders indented JSON without escaping HTML or non-ASCII
// characters.
type PrettyJSON struct {
	Data interface{}
}

func (r PrettyJSON) Render(w http.ResponseWriter) error {
	r.WriteContentType(w)

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r.Data); err != nil {
		return err
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func (r PrettyJSON) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = jsonContentType
	}
}

type APIError struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

func JSONResponse(c *gin.Context, statusCode int, data interface{}) {
	c.Render(statusCode, PrettyJSON{Data: data})
}

func SuccessResponse(c *gin.Context, data interface{}) {
	JSONResponse(c, http.StatusOK, data)
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	JSONResponse(c, statusCode, APIError{Error: message})
}

// BadRequestResponse answers with an empty JSON object.
func BadRequestResponse(c *gin.Context) {
	JSONResponse(c, http.StatusBadRequest, gin.H{})
}

func NotFoundResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusNotFound, i18n.T(GetLangFromContext(c), i18n.KeyNotFound))
}

// BadGatewayResponse reports an upstream failure. Only the upstream status
// is disclosed, never the underlying error.
func BadGatewayResponse(c *gin.Context, upstreamStatus int) {
	lang := GetLangFromContext(c)
	message := i18n.T(lang, i18n.KeySearchUpstreamFailed)
	if upstreamStatus != 0 {
		message = i18n.T(lang, i18n.KeySearchUpstreamStatus, upstreamStatus)
	}
	ErrorResponse(c, http.StatusBadGateway, message)
}

// InvalidQueryIDResponse answers a malformed query id with 404.
func InvalidQueryIDResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusNotFound, i18n.T(GetLangFromContext(c), i18n.KeySearchInvalidQueryID))
}

func InternalErrorResponse(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyInternalError)
	}
	ErrorResponse(c, http.StatusInternalServerError, message)
}

func ValidationErrorResponse(c *gin.Context, err *ResultsValidationError) {
	lang := GetLangFromContext(c)
	JSONResponse(c, http.StatusUnprocessableEntity, APIError{
		Error:  i18n.T(lang, i18n.KeyValidationFailed),
		Errors: err.Localize(lang),
	})
}

func TooManyRequestsResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusTooManyRequests, i18n.T(GetLangFromContext(c), i18n.KeyRateLimited))
}

func GetLangFromContext(c *gin.Context) string {
	if lang, exists := c.Get("lang"); exists {
		if langStr, ok := lang.(string); ok {
			return langStr
		}
	}
	return i18n.DefaultLanguage()
}

func GetRequestIDFromContext(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if requestIDStr, ok := requestID.(string); ok {
			return requestIDStr
		}
	}
	return ""
}
