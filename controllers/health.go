package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health answers 200 when every pinger succeeds.
func Health(deps map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := gin.H{}
		code := http.StatusOK
		for name, p := range deps {
			if err := p.Ping(c.Request.Context()); err != nil {
				status[name] = err.Error()
				code = http.StatusServiceUnavailable
				continue
			}
			status[name] = "ok"
		}
		c.JSON(code, gin.H{"status": status})
	}
}
