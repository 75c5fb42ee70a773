package notify

import "github.com/Kamrul101/donate-red-server/internal/http/v1/reply"

// SubscribeOutput for POST /subscribe
type SubscribeOutput struct {
	Body reply.Inserted
}

// NotifyOutput for POST /notify
type NotifyOutput struct {
	Body Dispatched
}
