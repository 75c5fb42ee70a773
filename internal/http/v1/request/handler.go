package request

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Kamrul101/donate-red-server/internal/http/v1/reply"
	"github.com/Kamrul101/donate-red-server/internal/platform/timeutil"
	requestsvc "github.com/Kamrul101/donate-red-server/internal/service/request"
)

// Announcer is told about newly created requests. It must return promptly;
// delivery happens in the background.
type Announcer interface {
	RequestCreated(ctx context.Context, r *requestsvc.Request)
}

// Register registers request lifecycle endpoints. announcer may be nil.
func Register(api huma.API, svc requestsvc.Service, announcer Announcer) {
	huma.Register(api, huma.Operation{
		OperationID: "list-requests",
		Method:      http.MethodGet,
		Path:        "/request",
		Summary:     "List requests",
		Description: "Returns every donation request, oldest first.",
		Tags:        []string{"Requests"},
	}, func(ctx context.Context, _ *RequestListInput) (*RequestListOutput, error) {
		requests, err := svc.List(ctx)
		if err != nil {
			return nil, mapServiceError(err)
		}
		out := make([]Request, 0, len(requests))
		for i := range requests {
			out = append(out, toHTTPRequest(&requests[i]))
		}
		return &RequestListOutput{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "find-request",
		Method:      http.MethodGet,
		Path:        "/request/{id}",
		Summary:     "Find a seeker's request to a donor",
		Description: "Returns the oldest request the seeker sent to the donor, or null.",
		Tags:        []string{"Requests"},
	}, func(ctx context.Context, input *RequestFindInput) (*RequestFindOutput, error) {
		r, err := svc.Find(ctx, input.ID, input.Email)
		if errors.Is(err, requestsvc.ErrNotFound) {
			return &RequestFindOutput{}, nil
		}
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &RequestFindOutput{Body: toHTTPRequest(r)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-request",
		Method:        http.MethodPost,
		Path:          "/request",
		Summary:       "Create request",
		Description:   "Creates a pending donation request. Repeated requests for the same donor are allowed.",
		Tags:          []string{"Requests"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *RequestCreateInput) (*RequestCreateOutput, error) {
		r, err := svc.Create(ctx, requestsvc.CreateParams{
			DonorID:     input.Body.DonorID,
			DonorEmail:  input.Body.DonorEmail,
			DonorName:   input.Body.DonorName,
			SeekerEmail: input.Body.SeekerEmail,
			SeekerName:  input.Body.SeekerName,
			SeekerPhone: input.Body.SeekerPhone,
			Group:       input.Body.Group,
			Hospital:    input.Body.Hospital,
			Location:    input.Body.Location,
			NeedDate:    input.Body.NeedDate,
			Message:     input.Body.Message,
			Extra:       input.Body.Extra,
		})
		if err != nil {
			return nil, mapServiceError(err)
		}
		if announcer != nil {
			announcer.RequestCreated(ctx, r)
		}
		return &RequestCreateOutput{Body: reply.NewInserted(r.ID)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-request-state",
		Method:      http.MethodPatch,
		Path:        "/request/{id}/state",
		Summary:     "Update request state",
		Description: "Sets the request state. Any transition between pending, accepted and rejected is allowed.",
		Tags:        []string{"Requests"},
	}, func(ctx context.Context, input *RequestStateInput) (*RequestStateOutput, error) {
		state, err := requestsvc.ParseState(input.Body.State)
		if err != nil {
			return nil, mapServiceError(err)
		}
		if err := svc.UpdateState(ctx, input.ID, state); err != nil {
			return nil, mapServiceError(err)
		}
		return &RequestStateOutput{Body: reply.Message{Message: "state updated"}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-request",
		Method:      http.MethodDelete,
		Path:        "/request/{id}",
		Summary:     "Delete request",
		Description: "Removes a request, typically after the donor rejects it.",
		Tags:        []string{"Requests"},
	}, func(ctx context.Context, input *RequestDeleteInput) (*RequestDeleteOutput, error) {
		if err := svc.Delete(ctx, input.ID); err != nil {
			return nil, mapServiceError(err)
		}
		return &RequestDeleteOutput{Body: Deleted{Message: "request deleted", DeletedCount: 1}}, nil
	})
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, requestsvc.ErrNotFound):
		return huma.Error404NotFound("not found")
	case errors.Is(err, requestsvc.ErrInvalidState):
		return huma.Error422UnprocessableEntity("invalid state")
	default:
		return huma.Error500InternalServerError("internal error")
	}
}

func toHTTPRequest(r *requestsvc.Request) Request {
	return Request{
		ID:          r.ID,
		DonorID:     r.DonorID,
		DonorEmail:  r.DonorEmail,
		DonorName:   r.DonorName,
		SeekerEmail: r.SeekerEmail,
		SeekerName:  r.SeekerName,
		SeekerPhone: r.SeekerPhone,
		Group:       r.Group,
		Hospital:    r.Hospital,
		Location:    r.Location,
		NeedDate:    r.NeedDate,
		Message:     r.Message,
		State:       string(r.State),
		Extra:       r.Extra,
		CreatedAt:   timeutil.NewTime(r.CreatedAt),
		UpdatedAt:   timeutil.NewTime(r.UpdatedAt),
	}
}
