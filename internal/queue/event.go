// Package queue contains the email dispatch pipeline: handlers publish
// EmailRequestedEvent messages to the broker and a background consumer
// drains them for delivery.
package queue

// EmailKind selects the template for an outgoing email.
type EmailKind string

const (
	EmailResetPassword   EmailKind = "reset_password"
	EmailActivateAccount EmailKind = "activate_account"
)

// EmailRequestedEvent is published whenever the service needs to send a
// recovery email. Link already contains the signed token; the event carries
// everything a delivery worker needs without querying the database.
type EmailRequestedEvent struct {
	To          string    `json:"to"`
	Kind        EmailKind `json:"kind"`
	Link        string    `json:"link"`
	RequestedAt string    `json:"requested_at"`
}
