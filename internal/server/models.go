package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listModels handles GET /api/v1/models so clients can discover the ids
// accepted by the "model" and "models" form values.
func (s *Server) listModels(c *gin.Context) {
	reg := s.pipe.Registry()
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"default": reg.Default().ID,
		"models":  reg.IDs(),
	})
}
