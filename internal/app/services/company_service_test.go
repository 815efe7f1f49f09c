package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/placementprep/internal/app/compensation"
	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/app/services"
	"github.com/yigit/placementprep/internal/pkg/apperrors"
	pkgauth "github.com/yigit/placementprep/internal/pkg/auth"
	"github.com/yigit/placementprep/internal/pkg/filestorage"
)

func validCompany(status models.CompanyStatus) *models.Company {
	return &models.Company{
		Name:        "Acme Corp",
		Type:        "Product",
		Status:      status,
		SubmittedBy: models.Submitter{Name: "asha", Email: "asha@college.edu"},
		Roles: []models.Role{{
			RoleName: "SDE",
			CTC:      models.NewCTC("base", 10.0, "bonus", 2.0, "stock", "negotiable"),
		}},
	}
}

func newCompanyService(store services.CompanyStore, pub *recordingPublisher, signer filestorage.URLSigner) services.CompanyService {
	return services.NewCompanyService(store, compensation.NewNormalizer(zerolog.Nop()), pub, signer, 10*time.Minute, zerolog.Nop())
}

// ── reads ───────────────────────────────────────────────────────────────────

func TestGetCompany_OnlyApprovedIsPublic(t *testing.T) {
	pending := validCompany(models.CompanyPending)
	approved := validCompany(models.CompanyApproved)
	approved.Name = "Globex"
	store := newFakeCompanies(pending, approved)
	svc := newCompanyService(store, &recordingPublisher{}, nil)

	if _, err := svc.GetCompany(context.Background(), pending.ID.String(), ""); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("pending company: err = %v, want not found", err)
	}
	got, err := svc.GetCompany(context.Background(), approved.ID.String(), "")
	if err != nil {
		t.Fatalf("GetCompany: %v", err)
	}
	if got.Name != "Globex" || got.SubmittedBy != nil {
		t.Errorf("public projection = %+v", got)
	}

	admin, err := svc.GetCompanyForAdmin(context.Background(), pending.ID.String())
	if err != nil || admin.SubmittedBy == nil {
		t.Errorf("admin view: %+v, %v", admin, err)
	}

	if _, err := svc.GetCompany(context.Background(), "not-a-uuid", ""); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("malformed id: err = %v", err)
	}
}

func TestListCompanies_ApprovedOnly(t *testing.T) {
	a := validCompany(models.CompanyApproved)
	b := validCompany(models.CompanyPending)
	b.Name = "Initech"
	svc := newCompanyService(newFakeCompanies(a, b), &recordingPublisher{}, nil)

	list, total, err := svc.ListCompanies(context.Background(), "", 1, 20)
	if err != nil {
		t.Fatalf("ListCompanies: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].Name != "Acme Corp" {
		t.Errorf("list = %+v (total %d)", list, total)
	}

	pending, _, err := svc.ListByStatus(context.Background(), "pending", 1, 20)
	if err != nil || len(pending) != 1 || pending[0].Name != "Initech" {
		t.Errorf("pending list = %+v, %v", pending, err)
	}
	if _, _, err := svc.ListByStatus(context.Background(), "archived", 1, 20); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("bad status: err = %v", err)
	}
}

func TestGetCompany_VideoURL(t *testing.T) {
	c := validCompany(models.CompanyApproved)
	c.VideoKey = "videos/acme.mp4"
	store := newFakeCompanies(c)

	tests := []struct {
		name   string
		signer filestorage.URLSigner
		want   bool
	}{
		{"signed", staticSigner{}, true},
		{"storage failure degrades to null", failingSigner{}, false},
		{"no storage", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newCompanyService(store, &recordingPublisher{}, tt.signer)
			got, err := svc.GetCompany(context.Background(), c.ID.String(), "")
			if err != nil {
				t.Fatalf("GetCompany: %v", err)
			}
			if (got.VideoURL != nil) != tt.want {
				t.Errorf("videoUrl = %v, want present=%v", got.VideoURL, tt.want)
			}
		})
	}
}

// ── engagement ──────────────────────────────────────────────────────────────

func TestUpvote_OncePerEmail(t *testing.T) {
	c := validCompany(models.CompanyApproved)
	store := newFakeCompanies(c)
	svc := newCompanyService(store, &recordingPublisher{}, nil)
	ctx := context.Background()

	resp, err := svc.Upvote(ctx, c.ID.String(), "ravi@college.edu")
	if err != nil || resp.HelpfulCount != 1 || !resp.HasVoted {
		t.Fatalf("first vote: %+v, %v", resp, err)
	}
	if _, err := svc.Upvote(ctx, c.ID.String(), "ravi@college.edu"); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("second vote: err = %v, want conflict", err)
	}
	if got := store.get(c.ID); got.HelpfulCount != 1 || len(got.HelpfulUsers) != 1 {
		t.Errorf("stored votes = %d %v", got.HelpfulCount, got.HelpfulUsers)
	}

	viewer, _ := svc.GetCompany(ctx, c.ID.String(), "ravi@college.edu")
	if !viewer.HasVoted {
		t.Error("hasVoted should be true for the voter")
	}
}

func TestUpvote_PendingCompanyIsNotFound(t *testing.T) {
	c := validCompany(models.CompanyPending)
	svc := newCompanyService(newFakeCompanies(c), &recordingPublisher{}, nil)
	if _, err := svc.Upvote(context.Background(), c.ID.String(), "a@college.edu"); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestRateDifficulty(t *testing.T) {
	c := validCompany(models.CompanyApproved)
	store := newFakeCompanies(c)
	svc := newCompanyService(store, &recordingPublisher{}, nil)
	ctx := context.Background()

	var last float64
	for _, r := range []int{1, 3, 5} {
		resp, err := svc.RateDifficulty(ctx, c.ID.String(), r)
		if err != nil {
			t.Fatalf("rate %d: %v", r, err)
		}
		last = resp.InterviewDifficultyLevel
	}
	if last != 3.00 {
		t.Errorf("mean = %v, want 3.00", last)
	}
	if got := store.get(c.ID); got.DifficultyRatingCount != 3 {
		t.Errorf("count = %d, want 3", got.DifficultyRatingCount)
	}

	for _, bad := range []int{0, 6, -1} {
		if _, err := svc.RateDifficulty(ctx, c.ID.String(), bad); !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Errorf("rating %d: err = %v", bad, err)
		}
	}
}

// ── moderation ──────────────────────────────────────────────────────────────

func TestCreateCompany_ForcesModerationFields(t *testing.T) {
	store := newFakeCompanies()
	pub := &recordingPublisher{}
	svc := newCompanyService(store, pub, nil)

	in := validCompany(models.CompanyApproved)
	in.HelpfulCount = 99
	in.HelpfulUsers = []string{"x@y.z"}
	in.SubmittedBy = models.Submitter{Name: "spoof", Email: "spoof@evil.test"}

	resp, err := svc.CreateCompany(context.Background(),
		pkgauth.Identity{UserID: "u1", Email: "ravi@college.edu", Username: "ravi"}, in)
	if err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}
	if resp.Status != string(models.CompanyPending) {
		t.Errorf("status = %s", resp.Status)
	}
	if resp.SubmittedBy == nil || resp.SubmittedBy.Email != "ravi@college.edu" {
		t.Errorf("submittedBy = %+v", resp.SubmittedBy)
	}
	if resp.HelpfulCount != 0 {
		t.Errorf("helpfulCount = %d", resp.HelpfulCount)
	}
	if pub.count() != 0 {
		t.Error("pending company must not raise an approval event")
	}

	stored, _ := store.GetByID(context.Background(), in.ID)
	total, _ := stored.Roles[0].CTC.Get("total")
	stock, _ := stored.Roles[0].CTC.Get("stock")
	if total.Number() != 12 || stock.Text() != "negotiable" {
		t.Errorf("ctc total = %v stock = %v", total, stock)
	}
}

func TestCreateCompany_FoldsAlignedSolutions(t *testing.T) {
	store := newFakeCompanies()
	svc := newCompanyService(store, &recordingPublisher{}, nil)

	var in models.Company
	body := `{
		"name": "Acme Corp",
		"type": "Product",
		"onlineQuestions": ["Reverse a linked list", "Detect a cycle"],
		"onlineQuestions_solution": ["Two pointers", ""]
	}`
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("decode: %v", err)
	}

	resp, err := svc.CreateCompany(context.Background(), pkgauth.Identity{UserID: "u1", Email: "ravi@college.edu"}, &in)
	if err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}
	if got := resp.OnlineQuestionsSolution; len(got) != 2 || got[0] != "Two pointers" || got[1] != "" {
		t.Errorf("onlineQuestions_solution = %q", got)
	}

	stored, _ := store.GetByID(context.Background(), in.ID)
	if _, ok := stored.Extra["onlineQuestions_solution"]; ok {
		t.Error("legacy solutions key kept after save")
	}
	if stored.OnlineQuestions[0].Solution != "Two pointers" {
		t.Errorf("stored = %+v", stored.OnlineQuestions)
	}
}

func TestCreateCompany_ValidationErrorsAreStructured(t *testing.T) {
	store := newFakeCompanies()
	svc := newCompanyService(store, &recordingPublisher{}, nil)

	in := validCompany(models.CompanyPending)
	in.Name = "A"
	_, err := svc.CreateCompany(context.Background(), pkgauth.Identity{UserID: "u1", Email: "ravi@college.edu"}, in)

	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if _, ok := verr.Fields["name"]; !ok {
		t.Errorf("fields = %v, want name", verr.Fields)
	}
	if n, _ := store.CountByStatus(context.Background(), models.CompanyPending); n != 0 {
		t.Error("invalid company was stored")
	}
}

func TestApproveCompany(t *testing.T) {
	c := validCompany(models.CompanyPending)
	store := newFakeCompanies(c)
	pub := &recordingPublisher{}
	svc := newCompanyService(store, pub, nil)
	ctx := context.Background()

	if _, err := svc.ApproveCompany(ctx, c.ID.String()); err != nil {
		t.Fatalf("ApproveCompany: %v", err)
	}
	if store.get(c.ID).Status != models.CompanyApproved {
		t.Error("company not approved")
	}
	if pub.count() != 1 || pub.events[0].CompanyID != c.ID {
		t.Errorf("events = %+v", pub.events)
	}
	if _, err := svc.ApproveCompany(ctx, c.ID.String()); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("re-approve: err = %v", err)
	}
}

func TestRejectCompany(t *testing.T) {
	pending := validCompany(models.CompanyPending)
	approved := validCompany(models.CompanyApproved)
	store := newFakeCompanies(pending, approved)
	svc := newCompanyService(store, &recordingPublisher{}, nil)
	ctx := context.Background()

	if err := svc.RejectCompany(ctx, pending.ID.String()); err != nil {
		t.Fatalf("RejectCompany: %v", err)
	}
	if store.get(pending.ID) != nil {
		t.Error("rejected company still stored")
	}
	if err := svc.RejectCompany(ctx, approved.ID.String()); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("reject approved: err = %v", err)
	}
	if err := svc.DeleteCompany(ctx, approved.ID.String()); err != nil {
		t.Errorf("DeleteCompany: %v", err)
	}
	if err := svc.DeleteCompany(ctx, approved.ID.String()); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("delete twice: err = %v", err)
	}
}
