package services

import (
	"context"
	"html"
	"strings"
)

// Mailer delivers a message with plain text and HTML bodies.
type Mailer interface {
	SendMail(ctx context.Context, to, subject, text, html string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// EventPublisher publishes booking lifecycle events.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

const (
	EventBookingCreated   = "booking.created"
	EventBookingUpdated   = "booking.updated"
	EventBookingCancelled = "booking.cancelled"
	EventBookingAssigned  = "booking.assigned"
	EventBookingStarted   = "booking.started"
	EventBookingCompleted = "booking.completed"
	EventPaymentRecorded  = "payment.recorded"
)

// BookingEvent is the payload of every booking.* event.
type BookingEvent struct {
	BookingID  string `json:"booking_id"`
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
	GroomerID  string `json:"groomer_id,omitempty"`
	Status     string `json:"status"`
	At         string `json:"at"`
}

func htmlLines(text string) string {
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")
}
