package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vpnscout-backend/internal/platform/apierr"
)

// ErrorBody is the failure envelope for every endpoint.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

func RespondError(c *gin.Context, status int, code, message string, err error) {
	if message == "" {
		message = http.StatusText(status)
	}
	body := ErrorBody{Error: message, Code: code}
	if err != nil {
		body.Details = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

// RespondAPIError renders err, classifying plain errors via apierr.FromError.
func RespondAPIError(c *gin.Context, code, message string, err error) {
	ae := apierr.FromError(code, err)
	if ae.Code != "" {
		code = ae.Code
	}
	RespondError(c, ae.Status, code, message, ae.Err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
