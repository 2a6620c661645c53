package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursegen-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError uses the status and code carried by an *apierr.Error and
// falls back to 500 for anything else.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.From(err)
	if ae == nil {
		ae = apierr.Internal(nil)
	}
	msg := ae.Error()
	if ae.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
		msg = http.StatusText(ae.Status)
	}
	c.JSON(ae.Status, ErrorEnvelope{Error: APIError{Message: msg, Code: ae.Code}})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
