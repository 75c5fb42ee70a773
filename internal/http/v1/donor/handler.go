package donor

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Kamrul101/donate-red-server/internal/platform/pagination"
	"github.com/Kamrul101/donate-red-server/internal/platform/timeutil"
	donorsvc "github.com/Kamrul101/donate-red-server/internal/service/donor"
)

const msgAlreadyExists = "user already exist"

// Register registers donor directory endpoints.
func Register(api huma.API, svc donorsvc.Service, prefix string) {
	huma.Register(api, huma.Operation{
		OperationID: "list-donors",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List donors",
		Description: "Returns donors matching the filters, most eligible first: never-donated donors, then by days since the last donation. " +
			"Total matches are in X-Total-Count and page navigation in the Link header.",
		Tags: []string{"Donors"},
	}, func(ctx context.Context, input *DonorListInput) (*DonorListOutput, error) {
		page, err := svc.List(ctx, donorsvc.ListParams{
			Group:        input.Group,
			Thana:        input.Thana,
			ExcludeEmail: input.Email,
			Page:         input.Page,
			Limit:        input.Limit,
		})
		if err != nil {
			return nil, mapServiceError(err)
		}

		donors := make([]Donor, 0, len(page.Donors))
		for i := range page.Donors {
			donors = append(donors, toHTTPDonor(&page.Donors[i]))
		}
		return &DonorListOutput{
			TotalCount: strconv.Itoa(page.Total),
			Link:       pagination.BuildLinkHeader(prefix+"/users", filterQuery(input), input.Params, page.Total),
			Body:       donors,
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-donor-by-email",
		Method:      http.MethodGet,
		Path:        "/singleUsers/{email}",
		Summary:     "Get donor by email",
		Description: "Returns the donor registered under the email, or null.",
		Tags:        []string{"Donors"},
	}, func(ctx context.Context, input *DonorByEmailInput) (*DonorLookupOutput, error) {
		d, err := svc.GetByEmail(ctx, input.Email)
		return lookupOutput(d, err)
	})

	huma.Register(api, huma.Operation{
		OperationID: "count-donors",
		Method:      http.MethodGet,
		Path:        "/totalUsers",
		Summary:     "Count donors",
		Description: "Returns the approximate number of registered donors.",
		Tags:        []string{"Donors"},
	}, func(ctx context.Context, _ *DonorCountInput) (*DonorCountOutput, error) {
		n, err := svc.Count(ctx)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &DonorCountOutput{Body: Count{TotalUsers: n}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-donor",
		Method:      http.MethodGet,
		Path:        "/users/{id}",
		Summary:     "Get donor by ID",
		Description: "Returns the donor with its computed dateDiff, or null.",
		Tags:        []string{"Donors"},
	}, func(ctx context.Context, input *DonorGetInput) (*DonorLookupOutput, error) {
		d, err := svc.Get(ctx, input.ID)
		return lookupOutput(d, err)
	})

	huma.Register(api, huma.Operation{
		OperationID:   "register-donor",
		Method:        http.MethodPost,
		Path:          "/users",
		Summary:       "Register donor",
		Description:   "Creates a donor profile. An already registered email is reported with 200 and a message instead of an error.",
		Tags:          []string{"Donors"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *DonorRegisterInput) (*DonorRegisterOutput, error) {
		d, err := svc.Register(ctx, donorsvc.CreateParams{
			Name:     input.Body.Name,
			Email:    input.Body.Email,
			Phone:    input.Body.Phone,
			Image:    input.Body.Image,
			Group:    input.Body.Group,
			District: input.Body.District,
			Thana:    input.Body.Thana,
			Gender:   input.Body.Gender,
			Age:      input.Body.Age,
			LastDate: input.Body.LastDate,
			Extra:    input.Body.Extra,
		})
		if errors.Is(err, donorsvc.ErrAlreadyExists) {
			return &DonorRegisterOutput{
				Status: http.StatusOK,
				Body:   RegisterResult{Message: msgAlreadyExists},
			}, nil
		}
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &DonorRegisterOutput{
			Status:   http.StatusCreated,
			Location: prefix + "/users/" + d.ID,
			Body:     RegisterResult{Acknowledged: true, InsertedID: d.ID},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "record-donation",
		Method:      http.MethodPatch,
		Path:        "/user/{id}",
		Summary:     "Record donation",
		Description: "Sets the donor's lastDate to today and deletes every request addressed to the donor, in one transaction.",
		Tags:        []string{"Donors"},
	}, func(ctx context.Context, input *DonationRecordInput) (*DonationRecordOutput, error) {
		res, err := svc.RecordDonation(ctx, input.ID, input.Body.Email)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &DonationRecordOutput{
			Body: Donation{LastDate: res.LastDate, DeletedCount: res.DeletedCount},
		}, nil
	})
}

// lookupOutput renders a missing donor as a JSON null with 200.
func lookupOutput(d *donorsvc.Donor, err error) (*DonorLookupOutput, error) {
	if errors.Is(err, donorsvc.ErrNotFound) {
		return &DonorLookupOutput{}, nil
	}
	if err != nil {
		return nil, mapServiceError(err)
	}
	return &DonorLookupOutput{Body: toHTTPDonor(d)}, nil
}

// filterQuery keeps the filters in pagination links. The group is written
// normalized so the link survives an unescaped "+".
func filterQuery(input *DonorListInput) url.Values {
	q := url.Values{}
	if g := donorsvc.NormalizeGroup(input.Group); g != "" {
		q.Set("group", g)
	}
	if input.Thana != "" {
		q.Set("thana", input.Thana)
	}
	if input.Email != "" {
		q.Set("email", input.Email)
	}
	return q
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, donorsvc.ErrNotFound):
		return huma.Error404NotFound("donor not found")
	case errors.Is(err, donorsvc.ErrEmailMismatch):
		return huma.Error422UnprocessableEntity("email does not match donor")
	case errors.Is(err, donorsvc.ErrAlreadyExists):
		return huma.Error409Conflict(msgAlreadyExists)
	default:
		return huma.Error500InternalServerError("internal error")
	}
}

func toHTTPDonor(d *donorsvc.Donor) Donor {
	return Donor{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Image:     d.Image,
		Group:     d.Group,
		District:  d.District,
		Thana:     d.Thana,
		Gender:    d.Gender,
		Age:       d.Age,
		LastDate:  d.LastDate,
		DateDiff:  d.DateDiff,
		Extra:     d.Extra,
		CreatedAt: timeutil.NewTime(d.CreatedAt),
		UpdatedAt: timeutil.NewTime(d.UpdatedAt),
	}
}
