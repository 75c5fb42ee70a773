package request

import (
	"encoding/json"

	"github.com/fxamacker/cbor/v2"

	"github.com/Kamrul101/donate-red-server/internal/http/v1/extras"
)

// RequestListInput for GET /request
type RequestListInput struct{}

// RequestFindInput for GET /request/{id}
type RequestFindInput struct {
	ID    string `path:"id"     pattern:"^[A-Za-z0-9]{20}$"   doc:"Donor identifier"   example:"Xk2m9QpLr4TnB7cVw1Za"`
	Email string `query:"email" format:"email" required:"true" doc:"Seeker email address" example:"rahim@example.com"`
}

// RequestCreateInput for POST /request
type RequestCreateInput struct {
	Body RequestCreateBody
}

// RequestCreateBody accepts the known request fields plus any additional
// details, which are kept in Extra.
type RequestCreateBody struct {
	DonorID     string `json:"donorId"               pattern:"^[A-Za-z0-9]{20}$"    required:"true" doc:"Donor identifier"       example:"Xk2m9QpLr4TnB7cVw1Za"`
	DonorEmail  string `json:"donorEmail"            format:"email"                 required:"true" doc:"Donor email address"    example:"karim@example.com"`
	SeekerEmail string `json:"seekerEmail"           format:"email"                 required:"true" doc:"Seeker email address"   example:"rahim@example.com"`
	Group       string `json:"group"                 enum:"A+,A-,B+,B-,AB+,AB-,O+,O-" required:"true" doc:"Blood group needed"   example:"O+"`
	DonorName   string `json:"donorName,omitempty"   maxLength:"100"                                doc:"Donor name"             example:"Karim Uddin"`
	SeekerName  string `json:"seekerName,omitempty"  maxLength:"100"                                doc:"Seeker name"            example:"Rahim Ahmed"`
	SeekerPhone string `json:"seekerPhone,omitempty" maxLength:"20"                                 doc:"Seeker phone"           example:"01811000000"`
	Hospital    string `json:"hospital,omitempty"    maxLength:"200"                                doc:"Hospital"               example:"Dhaka Medical College"`
	Location    string `json:"location,omitempty"    maxLength:"200"                                doc:"Hospital location"      example:"Shahbag"`
	NeedDate    string `json:"needDate,omitempty"    maxLength:"64"                                 doc:"When the blood is needed" example:"2025-03-20"`
	Message     string `json:"message,omitempty"     maxLength:"1000"                               doc:"Note to the donor"      example:"Surgery at 10am"`

	_     struct{}       `additionalProperties:"true"`
	Extra map[string]any `json:"-"`
}

func (b *RequestCreateBody) UnmarshalJSON(data []byte) error {
	type plain RequestCreateBody
	if err := json.Unmarshal(data, (*plain)(b)); err != nil {
		return err
	}
	extra, err := extras.FromJSON(data, plain{})
	b.Extra = extra
	return err
}

func (b *RequestCreateBody) UnmarshalCBOR(data []byte) error {
	type plain RequestCreateBody
	if err := cbor.Unmarshal(data, (*plain)(b)); err != nil {
		return err
	}
	extra, err := extras.FromCBOR(data, plain{})
	b.Extra = extra
	return err
}

// RequestStateInput for PATCH /request/{id}/state
type RequestStateInput struct {
	ID   string `path:"id" pattern:"^[A-Za-z0-9]{20}$" doc:"Request identifier" example:"Qw3rTy7uIo9pAs1dFg5h"`
	Body struct {
		State string `json:"state" enum:"pending,accepted,rejected" required:"true" doc:"New state" example:"accepted"`
	}
}

// RequestDeleteInput for DELETE /request/{id}
type RequestDeleteInput struct {
	ID string `path:"id" pattern:"^[A-Za-z0-9]{20}$" doc:"Request identifier" example:"Qw3rTy7uIo9pAs1dFg5h"`
}
