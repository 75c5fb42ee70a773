package donor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Kamrul101/donate-red-server/internal/platform/badgerdb"
	applog "github.com/Kamrul101/donate-red-server/internal/platform/logging"
	appmiddleware "github.com/Kamrul101/donate-red-server/internal/platform/middleware"
	"github.com/Kamrul101/donate-red-server/internal/platform/respond"
	donorsvc "github.com/Kamrul101/donate-red-server/internal/service/donor"
	requestsvc "github.com/Kamrul101/donate-red-server/internal/service/request"
)

var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

type failingService struct {
	donorsvc.Service
	err error
}

func (f *failingService) List(context.Context, donorsvc.ListParams) (*donorsvc.Page, error) {
	return nil, f.err
}

func (f *failingService) Get(context.Context, string) (*donorsvc.Donor, error) {
	return nil, f.err
}

func (f *failingService) RecordDonation(context.Context, string, string) (*donorsvc.Donation, error) {
	return nil, f.err
}

func newTestRouter(svc donorsvc.Service) chi.Router {
	router := chi.NewRouter()
	router.Use(
		appmiddleware.RequestID(),
		chimiddleware.RealIP,
		applog.RequestLogger(),
		respond.Recoverer(),
	)
	api := humachi.New(router, huma.DefaultConfig("DonorTest", "test"))
	Register(api, svc, "")
	return router
}

type fixture struct {
	router   chi.Router
	donors   *donorsvc.BadgerStore
	requests *requestsvc.BadgerStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := badgerdb.Open(badgerdb.Options{InMemory: true})
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	donors := donorsvc.NewBadgerStore(db, donorsvc.WithClock(testClock))
	return fixture{
		router:   newTestRouter(donors),
		donors:   donors,
		requests: requestsvc.NewBadgerStore(db, requestsvc.WithClock(testClock)),
	}
}

func (f fixture) seed(t *testing.T, email, group, thana, lastDate string) *donorsvc.Donor {
	t.Helper()
	d, err := f.donors.Register(context.Background(), donorsvc.CreateParams{
		Name: email, Email: email, Group: group, Thana: thana, LastDate: lastDate,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", email, err)
	}
	return d
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRegisterDonorCreated(t *testing.T) {
	f := newFixture(t)

	body := `{"name":"Karim","email":"Karim@Example.com","group":"O+","thana":"Mirpur","age":29}`
	resp := do(f.router, http.MethodPost, "/users", body)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var result RegisterResult
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if !result.Acknowledged || len(result.InsertedID) != 20 {
		t.Fatalf("unexpected result %+v", result)
	}
	if loc := resp.Header().Get("Location"); loc != "/users/"+result.InsertedID {
		t.Errorf("unexpected Location %q", loc)
	}
}

func TestRegisterDonorKeepsExtraFields(t *testing.T) {
	f := newFixture(t)

	body := `{"name":"Karim","email":"karim@example.com","group":"O+","address":"Road 5","weight":60}`
	resp := do(f.router, http.MethodPost, "/users", body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var result RegisterResult
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}

	read := func() Donor {
		t.Helper()
		resp := do(f.router, http.MethodGet, "/users/"+result.InsertedID, "")
		var d Donor
		if err := json.Unmarshal(resp.Body.Bytes(), &d); err != nil {
			t.Fatalf("json unmarshal: %v", err)
		}
		return d
	}

	d := read()
	if d.Extra["address"] != "Road 5" || d.Extra["weight"] != float64(60) {
		t.Fatalf("expected extra fields to round-trip, got %v", d.Extra)
	}
	if _, ok := d.Extra["name"]; ok {
		t.Fatal("declared field stored as extra")
	}

	// Recording a donation rewrites the profile and must keep them.
	if resp := do(f.router, http.MethodPatch, "/user/"+result.InsertedID, `{}`); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if d := read(); d.Extra["address"] != "Road 5" {
		t.Fatalf("expected extra fields after donation, got %v", d.Extra)
	}
}

func TestRegisterDonorCBORKeepsExtraFields(t *testing.T) {
	f := newFixture(t)

	payload, err := cbor.Marshal(map[string]any{
		"name": "Karim", "email": "karim@example.com", "group": "O+", "bags": 2,
	})
	if err != nil {
		t.Fatalf("cbor marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/cbor")
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	d, err := f.donors.GetByEmail(context.Background(), "karim@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error: %v", err)
	}
	if d.Extra["bags"] != float64(2) {
		t.Fatalf("expected bags extra, got %#v", d.Extra)
	}
}

func TestRegisterDonorDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a@x.com", "O+", "Mirpur", "")

	resp := do(f.router, http.MethodPost, "/users", `{"name":"Again","email":"A@X.com","group":"B+"}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var result RegisterResult
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if result.Message != "user already exist" || result.Acknowledged {
		t.Fatalf("unexpected result %+v", result)
	}

	count := do(f.router, http.MethodGet, "/totalUsers", "")
	if !strings.Contains(count.Body.String(), `"totalUsers":1`) {
		t.Fatalf("expected a single donor, got %s", count.Body.String())
	}
}

func TestRegisterDonorValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"name":"Karim","group":"O+"}`},
		{"bad email", `{"name":"Karim","email":"nope","group":"O+"}`},
		{"bad group", `{"name":"Karim","email":"k@x.com","group":"Z+"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(f.router, http.MethodPost, "/users", tt.body)
			if resp.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d: %s", resp.Code, resp.Body.String())
			}
		})
	}
}

func TestListDonorsOrderAndHeaders(t *testing.T) {
	f := newFixture(t)
	a := f.seed(t, "a@x.com", "O+", "Mirpur", "2024-02-09")
	b := f.seed(t, "b@x.com", "O+", "Mirpur", "")
	f.seed(t, "c@x.com", "A+", "Mirpur", "")

	resp := do(f.router, http.MethodGet, "/users?group=O+&thana=Mirpur&limit=1", "")

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("X-Total-Count"); got != "2" {
		t.Fatalf("expected X-Total-Count 2, got %q", got)
	}
	link := resp.Header().Get("Link")
	if !strings.Contains(link, `rel="next"`) || !strings.Contains(link, "group=O%2B") {
		t.Fatalf("unexpected Link %q", link)
	}

	var donors []Donor
	if err := json.Unmarshal(resp.Body.Bytes(), &donors); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if len(donors) != 1 || donors[0].ID != b.ID || donors[0].DateDiff != nil {
		t.Fatalf("expected never-donated donor first, got %+v", donors)
	}

	next := do(f.router, http.MethodGet, "/users?group=O%2B&thana=Mirpur&limit=1&page=1", "")
	donors = nil
	if err := json.Unmarshal(next.Body.Bytes(), &donors); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if len(donors) != 1 || donors[0].ID != a.ID || donors[0].DateDiff == nil || *donors[0].DateDiff < 400 {
		t.Fatalf("expected long-ago donor second, got %+v", donors)
	}
}

func TestListDonorsEmptyIsArray(t *testing.T) {
	f := newFixture(t)

	resp := do(f.router, http.MethodGet, "/users", "")

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := strings.TrimSpace(resp.Body.String()); body != "[]" {
		t.Fatalf("expected empty array, got %s", body)
	}
	if got := resp.Header().Get("X-Total-Count"); got != "0" {
		t.Fatalf("expected X-Total-Count 0, got %q", got)
	}
}

func TestListDonorsInvalidLimit(t *testing.T) {
	f := newFixture(t)

	resp := do(f.router, http.MethodGet, "/users?limit=0", "")
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}

func TestGetDonorByIDAndEmail(t *testing.T) {
	f := newFixture(t)
	d := f.seed(t, "a@x.com", "O+", "Mirpur", "2025-03-10")

	resp := do(f.router, http.MethodGet, "/users/"+d.ID, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var got Donor
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if got.ID != d.ID || got.DateDiff == nil || *got.DateDiff != 5.5 {
		t.Fatalf("unexpected donor %+v", got)
	}

	resp = do(f.router, http.MethodGet, "/singleUsers/a@x.com", "")
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), d.ID) {
		t.Fatalf("expected donor by email, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestGetDonorMissingIsNull(t *testing.T) {
	f := newFixture(t)

	for _, target := range []string{"/users/AAAAAAAAAAAAAAAAAAAA", "/singleUsers/nobody@x.com"} {
		resp := do(f.router, http.MethodGet, target, "")
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", target, resp.Code)
		}
		if body := strings.TrimSpace(resp.Body.String()); body != "null" {
			t.Fatalf("%s: expected null, got %s", target, body)
		}
	}
}

func TestGetDonorMalformedID(t *testing.T) {
	f := newFixture(t)

	resp := do(f.router, http.MethodGet, "/users/not-an-id", "")
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}

func TestRecordDonation(t *testing.T) {
	f := newFixture(t)
	d := f.seed(t, "donor@x.com", "O+", "Mirpur", "2024-01-01")
	for range 2 {
		if _, err := f.requests.Create(context.Background(), requestsvc.CreateParams{DonorID: d.ID, DonorEmail: "donor@x.com"}); err != nil {
			t.Fatalf("create request: %v", err)
		}
	}

	resp := do(f.router, http.MethodPatch, "/user/"+d.ID, `{"email":"donor@x.com"}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var got Donation
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if got.LastDate != "2025-03-15" || got.DeletedCount != 2 {
		t.Fatalf("unexpected donation %+v", got)
	}
}

func TestRecordDonationErrors(t *testing.T) {
	f := newFixture(t)
	d := f.seed(t, "donor@x.com", "O+", "Mirpur", "")

	tests := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{"unknown donor", "/user/AAAAAAAAAAAAAAAAAAAA", `{}`, http.StatusNotFound},
		{"email mismatch", "/user/" + d.ID, `{"email":"other@x.com"}`, http.StatusUnprocessableEntity},
		{"malformed id", "/user/short", `{}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(f.router, http.MethodPatch, tt.target, tt.body)
			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, resp.Code, resp.Body.String())
			}
			var problem huma.ErrorModel
			if err := json.Unmarshal(resp.Body.Bytes(), &problem); err != nil {
				t.Fatalf("json unmarshal: %v", err)
			}
			if problem.Status != tt.status {
				t.Errorf("expected problem status %d, got %d", tt.status, problem.Status)
			}
		})
	}
}

func TestStoreFailuresAreInternalErrors(t *testing.T) {
	router := newTestRouter(&failingService{err: errors.New("transaction aborted")})

	for _, tc := range []struct{ method, target, body string }{
		{http.MethodGet, "/users", ""},
		{http.MethodGet, "/users/AAAAAAAAAAAAAAAAAAAA", ""},
		{http.MethodPatch, "/user/AAAAAAAAAAAAAAAAAAAA", `{}`},
	} {
		resp := do(router, tc.method, tc.target, tc.body)
		if resp.Code != http.StatusInternalServerError {
			t.Fatalf("%s %s: expected 500, got %d", tc.method, tc.target, resp.Code)
		}
		if strings.Contains(resp.Body.String(), "transaction aborted") {
			t.Fatalf("%s %s: internal error leaked", tc.method, tc.target)
		}
	}
}
