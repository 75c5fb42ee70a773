package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	applog "github.com/Kamrul101/donate-red-server/internal/platform/logging"
)

// Dispatcher sends a message to every subscription of a donor.
type Dispatcher struct {
	store  SubscriptionStore
	sender Sender
}

// NewDispatcher creates a dispatcher over store and sender.
func NewDispatcher(store SubscriptionStore, sender Sender) *Dispatcher {
	return &Dispatcher{store: store, sender: sender}
}

// Result is the outcome of one delivery attempt.
type Result struct {
	SubscriptionID string
	Err            error
	Duration       time.Duration
}

// Dispatch delivers msg to all subscriptions registered for email
// concurrently and waits for every attempt. A failed delivery is logged and
// reported in its Result; it never stops the others. The error is non-nil
// only when the subscriptions could not be listed.
func (d *Dispatcher) Dispatch(ctx context.Context, email string, msg Message) ([]Result, error) {
	subs, err := d.store.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return nil, nil
	}

	var wg sync.WaitGroup
	results := make([]Result, len(subs))
	for i, sub := range subs {
		wg.Add(1)
		go func(idx int, sub Subscription) {
			defer wg.Done()
			results[idx] = d.deliver(ctx, sub, msg)
		}(i, sub)
	}
	wg.Wait()

	return results, nil
}

func (d *Dispatcher) deliver(ctx context.Context, sub Subscription, msg Message) Result {
	start := time.Now()
	err := d.sender.Send(ctx, sub.Token, msg)
	res := Result{
		SubscriptionID: sub.ID,
		Err:            err,
		Duration:       time.Since(start),
	}
	if err != nil {
		applog.LogWarn(ctx, "push delivery failed",
			zap.String("subscriptionId", sub.ID),
			zap.Duration("duration", res.Duration),
			zap.Error(err),
		)
	}
	return res
}

// Failed counts the results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
