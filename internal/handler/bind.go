package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"claimequity/internal/domain"
)

// bindJSON decodes the request body into req. An empty body leaves req at
// its zero value so documented defaults apply. On failure the error response
// is already written and false is returned.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		HandleError(c, domain.ErrInvalidBody)
		return false
	}
	return true
}
