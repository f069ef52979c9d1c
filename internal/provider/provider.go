package provider

import "context"

// SendRequest is one outbound campaign email.
type SendRequest struct {
	To               string
	ToName           string
	Subject          string
	HTML             string
	UnsubscribeToken string
}

// SendResponse is the provider's acknowledgement.
type SendResponse struct {
	MessageID string
}

// EmailProvider delivers a single email. Failures are returned as errors and
// the caller decides whether they abort anything; the warm-up batch loop
// collects them per recipient and keeps going.
type EmailProvider interface {
	Send(ctx context.Context, req *SendRequest) (*SendResponse, error)
}
