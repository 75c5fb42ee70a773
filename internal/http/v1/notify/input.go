package notify

// SubscribeInput for POST /subscribe
type SubscribeInput struct {
	Body struct {
		Email string `json:"email" format:"email" required:"true"                 doc:"Donor email address"  example:"karim@example.com"`
		Token string `json:"token" minLength:"1" maxLength:"4096" required:"true" doc:"Push registration token" example:"fcm-registration-token"`
	}
}

// NotifyInput for POST /notify
type NotifyInput struct {
	Body struct {
		Email   string `json:"email"           format:"email"                     required:"true" doc:"Donor email address" example:"karim@example.com"`
		Title   string `json:"title,omitempty" maxLength:"200"                                    doc:"Notification title"  example:"Blood request update"`
		Message string `json:"message"         minLength:"1"   maxLength:"1000" required:"true" doc:"Notification body"   example:"Your request was accepted"`
	}
}
