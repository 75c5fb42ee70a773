package notify

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/Kamrul101/donate-red-server/internal/http/v1/reply"
	applog "github.com/Kamrul101/donate-red-server/internal/platform/logging"
	donorsvc "github.com/Kamrul101/donate-red-server/internal/service/donor"
	notifysvc "github.com/Kamrul101/donate-red-server/internal/service/notify"
)

// DefaultTitle is used when a notify call carries no title.
const DefaultTitle = "Donate Red"

// DonorLookup resolves the donor a notification is addressed to.
type DonorLookup interface {
	GetByEmail(ctx context.Context, email string) (*donorsvc.Donor, error)
}

// Register registers push subscription and notification endpoints.
func Register(api huma.API, subs notifysvc.SubscriptionStore, donors DonorLookup, dispatcher *notifysvc.Dispatcher) {
	huma.Register(api, huma.Operation{
		OperationID:   "subscribe",
		Method:        http.MethodPost,
		Path:          "/subscribe",
		Summary:       "Register push subscription",
		Description:   "Stores a push registration token for a donor email. Repeated tokens are kept.",
		Tags:          []string{"Notifications"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *SubscribeInput) (*SubscribeOutput, error) {
		sub, err := subs.Subscribe(ctx, input.Body.Email, input.Body.Token)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &SubscribeOutput{Body: reply.NewInserted(sub.ID)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "notify",
		Method:      http.MethodPost,
		Path:        "/notify",
		Summary:     "Push notification to a donor",
		Description: "Sends the message to every subscription of the donor. Individual delivery failures are logged, not reported.",
		Tags:        []string{"Notifications"},
	}, func(ctx context.Context, input *NotifyInput) (*NotifyOutput, error) {
		if _, err := donors.GetByEmail(ctx, input.Body.Email); err != nil {
			return nil, mapServiceError(err)
		}

		title := input.Body.Title
		if title == "" {
			title = DefaultTitle
		}
		results, err := dispatcher.Dispatch(ctx, input.Body.Email, notifysvc.Message{
			Title: title,
			Body:  input.Body.Message,
		})
		if err != nil {
			return nil, mapServiceError(err)
		}
		if failed := notifysvc.Failed(results); failed > 0 {
			applog.LogWarn(ctx, "notification partially delivered",
				zap.Int("attempted", len(results)),
				zap.Int("failed", failed),
			)
		}
		return &NotifyOutput{Body: Dispatched{
			Message:   "notification dispatched",
			Attempted: len(results),
		}}, nil
	})
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, donorsvc.ErrNotFound):
		return huma.Error404NotFound("donor not found")
	case errors.Is(err, notifysvc.ErrInvalidSubscription):
		return huma.Error422UnprocessableEntity("invalid subscription")
	default:
		return huma.Error500InternalServerError("internal error")
	}
}
