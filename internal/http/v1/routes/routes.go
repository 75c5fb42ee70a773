package routes

import (
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Kamrul101/donate-red-server/internal/http/v1/donor"
	"github.com/Kamrul101/donate-red-server/internal/http/v1/notify"
	"github.com/Kamrul101/donate-red-server/internal/http/v1/request"
	donorsvc "github.com/Kamrul101/donate-red-server/internal/service/donor"
	notifysvc "github.com/Kamrul101/donate-red-server/internal/service/notify"
	requestsvc "github.com/Kamrul101/donate-red-server/internal/service/request"
)

// Services bundles the domain services the routes depend on.
// Announcer is optional.
type Services struct {
	Donors        donorsvc.Service
	Requests      requestsvc.Service
	Subscriptions notifysvc.SubscriptionStore
	Dispatcher    *notifysvc.Dispatcher
	Announcer     request.Announcer
}

// Register wires all HTTP routes into the provided API router.
func Register(api huma.API, svc Services) {
	prefix := apiPrefix(api)

	donor.Register(api, svc.Donors, prefix)
	request.Register(api, svc.Requests, svc.Announcer)
	notify.Register(api, svc.Subscriptions, svc.Donors, svc.Dispatcher)
}

func apiPrefix(api huma.API) string {
	for _, s := range api.OpenAPI().Servers {
		if u, err := url.Parse(s.URL); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return ""
}
