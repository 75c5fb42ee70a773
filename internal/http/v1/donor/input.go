package donor

import (
	"encoding/json"

	"github.com/fxamacker/cbor/v2"

	"github.com/Kamrul101/donate-red-server/internal/http/v1/extras"
	"github.com/Kamrul101/donate-red-server/internal/platform/pagination"
)

// DonorListInput for GET /users
type DonorListInput struct {
	pagination.Params
	Group string `query:"group" maxLength:"3"   doc:"Blood group filter; a trailing space reads as +" example:"O+"`
	Thana string `query:"thana" maxLength:"100" doc:"Administrative zone filter"                      example:"Mirpur"`
	Email string `query:"email" maxLength:"254" doc:"Requester email, excluded from the results"      example:"me@example.com"`
}

// DonorByEmailInput for GET /singleUsers/{email}
type DonorByEmailInput struct {
	Email string `path:"email" maxLength:"254" doc:"Donor email address" example:"karim@example.com"`
}

// DonorCountInput for GET /totalUsers
type DonorCountInput struct{}

// DonorGetInput for GET /users/{id}
type DonorGetInput struct {
	ID string `path:"id" pattern:"^[A-Za-z0-9]{20}$" doc:"Donor identifier" example:"Xk2m9QpLr4TnB7cVw1Za"`
}

// DonorRegisterInput for POST /users
type DonorRegisterInput struct {
	Body DonorRegisterBody
}

// DonorRegisterBody accepts the known profile fields plus any additional
// demographic properties, which are kept in Extra.
type DonorRegisterBody struct {
	Name     string `json:"name"               minLength:"1" maxLength:"100"            required:"true" doc:"Full name"                 example:"Karim Uddin"`
	Email    string `json:"email"              format:"email"                           required:"true" doc:"Email address"             example:"karim@example.com"`
	Group    string `json:"group"              enum:"A+,A-,B+,B-,AB+,AB-,O+,O-"         required:"true" doc:"Blood group"               example:"O+"`
	Phone    string `json:"phone,omitempty"    maxLength:"20"                                           doc:"Contact phone"             example:"01711000000"`
	Image    string `json:"image,omitempty"    maxLength:"2048"                                         doc:"Profile image URL"         example:"https://i.ibb.co/x/karim.png"`
	District string `json:"district,omitempty" maxLength:"100"                                          doc:"District"                  example:"Dhaka"`
	Thana    string `json:"thana,omitempty"    maxLength:"100"                                          doc:"Thana"                     example:"Mirpur"`
	Gender   string `json:"gender,omitempty"   maxLength:"20"                                           doc:"Gender"                    example:"male"`
	Age      int    `json:"age,omitempty"      minimum:"0" maximum:"120"                                doc:"Age in years"              example:"29"`
	LastDate string `json:"lastDate,omitempty" maxLength:"64"                                           doc:"Most recent donation date" example:"2025-01-20"`

	_     struct{}       `additionalProperties:"true"`
	Extra map[string]any `json:"-"`
}

func (b *DonorRegisterBody) UnmarshalJSON(data []byte) error {
	type plain DonorRegisterBody
	if err := json.Unmarshal(data, (*plain)(b)); err != nil {
		return err
	}
	extra, err := extras.FromJSON(data, plain{})
	b.Extra = extra
	return err
}

func (b *DonorRegisterBody) UnmarshalCBOR(data []byte) error {
	type plain DonorRegisterBody
	if err := cbor.Unmarshal(data, (*plain)(b)); err != nil {
		return err
	}
	extra, err := extras.FromCBOR(data, plain{})
	b.Extra = extra
	return err
}

// DonationRecordInput for PATCH /user/{id}
type DonationRecordInput struct {
	ID   string `path:"id" pattern:"^[A-Za-z0-9]{20}$" doc:"Donor identifier" example:"Xk2m9QpLr4TnB7cVw1Za"`
	Body struct {
		Email string `json:"email,omitempty" format:"email" doc:"Donor email; must match the stored profile when given" example:"karim@example.com"`
	} `required:"false"`
}
