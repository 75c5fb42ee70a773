package notify

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	applog "github.com/Kamrul101/donate-red-server/internal/platform/logging"
	requestsvc "github.com/Kamrul101/donate-red-server/internal/service/request"
)

// RequestAnnouncer pushes a notification to the addressed donor whenever a
// request is created. Delivery runs in the background and outlives the
// HTTP request that triggered it; call Wait during shutdown.
type RequestAnnouncer struct {
	dispatcher *Dispatcher
	wg         sync.WaitGroup
}

// NewRequestAnnouncer creates an announcer that delivers through d.
func NewRequestAnnouncer(d *Dispatcher) *RequestAnnouncer {
	return &RequestAnnouncer{dispatcher: d}
}

// RequestCreated starts delivery for r and returns immediately.
func (a *RequestAnnouncer) RequestCreated(ctx context.Context, r *requestsvc.Request) {
	ctx = applog.WithFields(context.WithoutCancel(ctx), zap.String("requestId", r.ID))
	msg := requestMessage(ctx, r)
	email := r.DonorEmail

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		results, err := a.dispatcher.Dispatch(ctx, email, msg)
		if err != nil {
			applog.LogError(ctx, "request announcement failed", err)
			return
		}
		applog.LogInfo(ctx, "request announced",
			zap.Int("attempted", len(results)),
			zap.Int("failed", Failed(results)),
		)
	}()
}

// Wait blocks until every started delivery has finished.
func (a *RequestAnnouncer) Wait() {
	a.wg.Wait()
}

// requestMessage builds the push payload for r. The correlation ID of the
// creating HTTP request travels in Data so client reports can be matched to logs.
func requestMessage(ctx context.Context, r *requestsvc.Request) Message {
	body := fmt.Sprintf("Someone needs %s blood", r.Group)
	if r.Hospital != "" {
		body += " at " + r.Hospital
	}
	data := map[string]string{
		"requestId": r.ID,
		"group":     r.Group,
	}
	if traceID := applog.TraceIDFromContext(ctx); traceID != nil {
		data["traceId"] = *traceID
	}
	return Message{
		Title: "New blood request",
		Body:  body,
		Data:  data,
	}
}
