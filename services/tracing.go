package services

import (
	"errors"

	"pawcare-backend/store"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("pawcare.services")

func isNotFound(err error) bool  { return errors.Is(err, store.ErrNotFound) }
func isDuplicate(err error) bool { return errors.Is(err, store.ErrDuplicate) }
