package controllers

import (
	"net/http"

	"pawcare-backend/services"
	"pawcare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func statusFor(k services.Kind) int {
	switch k {
	case services.KindValidation, services.KindConflict:
		return http.StatusBadRequest
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindDuplicate:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError maps service errors to their status. Anything else is logged
// and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	if e, ok := services.AsError(err); ok {
		utils.RespondWithError(c, statusFor(e.Kind), e.Message)
		return
	}
	logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
	}).Error("request failed")
	span := trace.SpanFromContext(c.Request.Context())
	span.RecordError(err)
	span.SetStatus(codes.Error, "internal error")
	utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
}

func session(c *gin.Context) (utils.Session, bool) {
	s, ok := utils.GetSession(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
	}
	return s, ok
}

func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return false
	}
	return true
}
