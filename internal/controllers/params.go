package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// idParam returns the path parameter in canonical uuid form. Anything that
// does not parse is passed through so the service reports it.
func idParam(c *gin.Context, name string) string {
	raw := strings.TrimSpace(c.Param(name))
	if id, err := uuid.Parse(raw); err == nil {
		return id.String()
	}
	return raw
}
