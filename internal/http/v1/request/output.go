package request

import "github.com/Kamrul101/donate-red-server/internal/http/v1/reply"

// RequestListOutput for GET /request
type RequestListOutput struct {
	Body []Request
}

// RequestFindOutput for GET /request/{id}. Body is a Request, or nil (JSON
// null) when nothing matches.
type RequestFindOutput struct {
	Body any
}

// RequestCreateOutput for POST /request (201 Created)
type RequestCreateOutput struct {
	Body reply.Inserted
}

// RequestStateOutput for PATCH /request/{id}/state
type RequestStateOutput struct {
	Body reply.Message
}

// RequestDeleteOutput for DELETE /request/{id}
type RequestDeleteOutput struct {
	Body Deleted
}
