package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServeContract serves an embedded API document as is
func ServeContract(contentType string, document []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, contentType, document)
	}
}
