package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON shape of every failed request
type ErrorBody struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// MessageBody is returned by operations without a resource payload
type MessageBody struct {
	Message string `json:"message"`
}

// Message sends a message-only response
func Message(c *gin.Context, code int, message string) {
	c.JSON(code, MessageBody{Message: message})
}

// Error sends an error response, details list offending fields when present
func Error(c *gin.Context, code int, message string, details []string) {
	c.JSON(code, ErrorBody{
		Message: message,
		Errors:  details,
	})
}

// Abort sends an error response and stops the handler chain
func Abort(c *gin.Context, code int, message string) {
	Error(c, code, message, nil)
	c.Abort()
}
