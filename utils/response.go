package utils

import (
	"github.com/gin-gonic/gin"
)

// RespondWithError aborts the request with a {message} body.
func RespondWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"message": message})
}

// RespondWithData writes the {message, data} success envelope.
func RespondWithData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, gin.H{
		"message": message,
		"data":    data,
	})
}

// RespondWithPage is RespondWithData plus a pagination object.
func RespondWithPage(c *gin.Context, code int, message string, data interface{}, pagination interface{}) {
	c.JSON(code, gin.H{
		"message":    message,
		"data":       data,
		"pagination": pagination,
	})
}
