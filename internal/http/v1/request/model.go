package request

import "github.com/Kamrul101/donate-red-server/internal/platform/timeutil"

// Request represents a donation request response.
type Request struct {
	ID          string         `json:"_id"             doc:"Unique identifier"        example:"Qw3rTy7uIo9pAs1dFg5h"`
	DonorID     string         `json:"donorId"         doc:"Donor identifier"         example:"Xk2m9QpLr4TnB7cVw1Za"`
	DonorEmail  string         `json:"donorEmail"      doc:"Donor email address"      example:"karim@example.com"`
	DonorName   string         `json:"donorName"       doc:"Donor name"               example:"Karim Uddin"`
	SeekerEmail string         `json:"seekerEmail"     doc:"Seeker email address"     example:"rahim@example.com"`
	SeekerName  string         `json:"seekerName"      doc:"Seeker name"              example:"Rahim Ahmed"`
	SeekerPhone string         `json:"seekerPhone"     doc:"Seeker phone"             example:"01811000000"`
	Group       string         `json:"group"           doc:"Blood group needed"       example:"O+"`
	Hospital    string         `json:"hospital"        doc:"Hospital"                 example:"Dhaka Medical College"`
	Location    string         `json:"location"        doc:"Hospital location"        example:"Shahbag"`
	NeedDate    string         `json:"needDate"        doc:"When the blood is needed" example:"2025-03-20"`
	Message     string         `json:"message"         doc:"Note to the donor"        example:"Surgery at 10am"`
	State       string         `json:"state"           doc:"Lifecycle state"          example:"pending" enum:"pending,accepted,rejected"`
	CreatedAt   timeutil.Time  `json:"createdAt"       doc:"Creation timestamp"       example:"2025-03-15T10:30:00.000Z"`
	UpdatedAt   timeutil.Time  `json:"updatedAt"       doc:"Last update timestamp"    example:"2025-03-15T10:30:00.000Z"`
	Extra       map[string]any `json:"extra,omitempty" doc:"Additional request details supplied at creation"`
}

// Deleted acknowledges a removed request.
type Deleted struct {
	Message      string `json:"message"      doc:"Outcome description"      example:"request deleted"`
	DeletedCount int    `json:"deletedCount" doc:"Number of removed requests" example:"1"`
}
