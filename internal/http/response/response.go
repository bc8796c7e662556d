package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JithuMorrison/Lingzee/internal/platform/apierr"
)

type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorBody{Error: msg, Code: code})
}

// RespondErr writes err with the status and code it carries. Errors that are
// not client-facing become an opaque 500; their detail stays in the logs.
func RespondErr(c *gin.Context, err error) {
	ae, ok := apierr.As(err)
	if !ok || ae.Status == 0 || ae.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorBody{Error: "internal server error", Code: "internal_error"})
		return
	}
	code := ae.Code
	if code == "" {
		code = defaultCode(ae.Status)
	}
	RespondError(c, ae.Status, code, ae.Err)
}

// AbortErr is RespondErr for middleware: later handlers do not run.
func AbortErr(c *gin.Context, err error) {
	RespondErr(c, err)
	c.Abort()
}

func defaultCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	}
	return "error"
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
