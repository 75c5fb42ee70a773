package donor

import (
	"github.com/Kamrul101/donate-red-server/internal/platform/timeutil"
)

// Donor represents a donor profile response.
type Donor struct {
	ID        string         `json:"_id"                doc:"Unique identifier"                            example:"Xk2m9QpLr4TnB7cVw1Za"`
	Name      string         `json:"name"               doc:"Full name"                                    example:"Karim Uddin"`
	Email     string         `json:"email"              doc:"Email address"                                example:"karim@example.com"`
	Phone     string         `json:"phone"              doc:"Contact phone"                                example:"01711000000"`
	Image     string         `json:"image"              doc:"Profile image URL"                            example:"https://i.ibb.co/x/karim.png"`
	Group     string         `json:"group"              doc:"Blood group"                                  example:"O+"`
	District  string         `json:"district"           doc:"District"                                     example:"Dhaka"`
	Thana     string         `json:"thana"              doc:"Thana"                                        example:"Mirpur"`
	Gender    string         `json:"gender"             doc:"Gender"                                       example:"male"`
	Age       int            `json:"age,omitempty"      doc:"Age in years"                                 example:"29"`
	LastDate  string         `json:"lastDate,omitempty" doc:"Most recent donation date"                    example:"2025-01-20"`
	DateDiff  *float64       `json:"dateDiff"           doc:"Days since lastDate; null when never donated" example:"54.5"`
	CreatedAt timeutil.Time  `json:"createdAt"          doc:"Creation timestamp"                           example:"2025-01-15T10:30:00.000Z"`
	UpdatedAt timeutil.Time  `json:"updatedAt"          doc:"Last update timestamp"                        example:"2025-01-15T10:30:00.000Z"`
	Extra     map[string]any `json:"extra,omitempty"    doc:"Additional profile fields supplied at registration"`
}

// Count is the GET /totalUsers body.
type Count struct {
	TotalUsers int64 `json:"totalUsers" doc:"Approximate number of registered donors" example:"120"`
}

// RegisterResult acknowledges a registration or reports a duplicate email.
type RegisterResult struct {
	Acknowledged bool   `json:"acknowledged,omitempty" doc:"Set when a donor was created"      example:"true"`
	InsertedID   string `json:"insertedId,omitempty"   doc:"Identifier of the new donor"       example:"Xk2m9QpLr4TnB7cVw1Za"`
	Message      string `json:"message,omitempty"      doc:"Set when the email already exists" example:"user already exist"`
}

// Donation is the PATCH /user/{id} body.
type Donation struct {
	LastDate     string `json:"lastDate"     doc:"Recorded donation date (UTC)"    example:"2025-03-15"`
	DeletedCount int    `json:"deletedCount" doc:"Requests removed for this donor" example:"2"`
}
