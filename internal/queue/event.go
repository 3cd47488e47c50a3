// Package queue defines message payloads exchanged over the message broker
// and the background consumer that simulates email delivery.
package queue

// EmailRequestedEvent is published whenever the auth core logs an
// outbound email (registration or code resend). It carries enough
// for downstream consumers to render, deliver or audit the message
// without reading the primary snapshot.
type EmailRequestedEvent struct {
	LogID       uint64 `json:"log_id"`
	Email       string `json:"email"`
	Type        string `json:"type"`
	Code        string `json:"code"`
	RequestedAt string `json:"requested_at"`
}
