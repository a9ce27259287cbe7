package pipeline

import "fmt"

// MessageStatus values mirror the message_status enum in PostgreSQL.
// Exactly one status per message; the delivery lifecycle runs
// draft → queued → sent → delivered → opened → responded.
type MessageStatus string

const (
	StatusDraft     MessageStatus = "draft"
	StatusQueued    MessageStatus = "queued"
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusOpened    MessageStatus = "opened"
	StatusResponded MessageStatus = "responded"
)

// ParseMessageStatus converts a raw string to a MessageStatus, returning
// an error for unknown values.
func ParseMessageStatus(s string) (MessageStatus, error) {
	st := MessageStatus(s)
	switch st {
	case StatusDraft, StatusQueued, StatusSent, StatusDelivered, StatusOpened, StatusResponded:
		return st, nil
	}
	return "", fmt.Errorf("unknown message status %q", s)
}

// isDelivered reports whether a status counts toward the delivered bucket.
// A responded message was necessarily delivered, so the bucket is
// inclusive: delivered, opened and responded all count.
func isDelivered(s MessageStatus) bool {
	return s == StatusDelivered || s == StatusOpened || s == StatusResponded
}

// isActive reports whether a status counts as in-flight outreach:
// queued, sent, delivered or opened. Drafts have not launched and
// responded messages have completed the loop.
func isActive(s MessageStatus) bool {
	switch s {
	case StatusQueued, StatusSent, StatusDelivered, StatusOpened:
		return true
	}
	return false
}
