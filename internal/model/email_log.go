package model

import "time"

// Email types recorded in the log. Only verification emails are
// produced today; the password-reset type is part of the durable
// format and reserved for the reset flow.
const (
	EmailTypeVerification  = "verification"
	EmailTypePasswordReset = "password-reset"
)

// Delivery states of a logged email.
const (
	EmailStatusSent      = "sent"
	EmailStatusFailed    = "failed"
	EmailStatusDelivered = "delivered"
)

// EmailLogEntry is an audit record of a simulated outbound email in
// the snapshot's `emailLogs` collection. Entries are append-only:
// the auth core never mutates or deletes them. The one exception to
// mutation is the delivery simulator, which flips Status from sent
// to delivered after consuming the queued event.
//
// Fields:
//  ID     – numeric identifier, assigned as max existing id + 1.
//  Email  – recipient address.
//  Type   – EmailTypeVerification or EmailTypePasswordReset.
//  Code   – the code carried by the email.
//  SentAt – timestamp of the (simulated) send.
//  Status – sent, failed or delivered.
type EmailLogEntry struct {
	ID     uint64    `json:"id"`
	Email  string    `json:"email"`
	Type   string    `json:"type"`
	Code   string    `json:"code"`
	SentAt time.Time `json:"sentAt"`
	Status string    `json:"status"`
}
