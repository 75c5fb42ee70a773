package donor

// DonorListOutput for GET /users
type DonorListOutput struct {
	TotalCount string `header:"X-Total-Count" doc:"Donors matching the filters"`
	Link       string `header:"Link"          doc:"RFC 8288 pagination links"`
	Body       []Donor
}

// DonorLookupOutput for the single-donor lookups. Body is a Donor, or nil
// (JSON null) when nothing matches.
type DonorLookupOutput struct {
	Body any
}

// DonorCountOutput for GET /totalUsers
type DonorCountOutput struct {
	Body Count
}

// DonorRegisterOutput for POST /users: 201 when created, 200 for a
// duplicate email.
type DonorRegisterOutput struct {
	Status   int
	Location string `header:"Location" doc:"URL of created donor"`
	Body     RegisterResult
}

// DonationRecordOutput for PATCH /user/{id}
type DonationRecordOutput struct {
	Body Donation
}
