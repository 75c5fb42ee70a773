package notify

// Dispatched summarizes a push fan-out.
type Dispatched struct {
	Message   string `json:"message"   doc:"Outcome description"              example:"notification dispatched"`
	Attempted int    `json:"attempted" doc:"Number of subscriptions contacted" example:"2"`
}
