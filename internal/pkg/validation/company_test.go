package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/pkg/apperrors"
	"github.com/yigit/placementprep/internal/pkg/validation"
)

func validCompany() *models.Company {
	return &models.Company{
		Name:        "Acme",
		Type:        "Product",
		Status:      models.CompanyPending,
		SubmittedBy: models.Submitter{Name: "Asha", Email: "asha@college.edu"},
		Roles:       []models.Role{{RoleName: "SDE", CTC: models.NewCTC("base", 10)}},
		JobDescription: []models.JobDescription{
			{Title: "SDE 2025", FileURL: "https://cdn.example.com/jd.pdf", FileType: "pdf"},
			{Title: "Intern 2025", FileURL: "https://cdn.example.com/intern.docx", FileType: "docx"},
		},
	}
}

func TestValidateCompany_Valid(t *testing.T) {
	if err := validation.ValidateCompany(validCompany()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateCompany_FieldErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *models.Company)
		field  string
	}{
		{"short name", func(c *models.Company) { c.Name = "A" }, "name"},
		{"long name", func(c *models.Company) { c.Name = strings.Repeat("n", 51) }, "name"},
		{"missing type", func(c *models.Company) { c.Type = "" }, "type"},
		{"unknown status", func(c *models.Company) { c.Status = "archived" }, "status"},
		{"short role name", func(c *models.Company) { c.Roles[0].RoleName = "X" }, "roles.0.roleName"},
		{"negative stipend", func(c *models.Company) { c.Roles[0].InternshipStipend = -1 }, "roles.0.internshipStipend"},
		{"bad jd type", func(c *models.Company) { c.JobDescription[1].FileType = "exe" }, "jobDescription.1.fileType"},
		{"long jd title", func(c *models.Company) { c.JobDescription[0].Title = strings.Repeat("t", 101) }, "jobDescription.0.title"},
		{"rating out of range", func(c *models.Company) { c.DifficultyRatings = []int{3, 6} }, "difficulty_ratings.1"},
		{"empty topic", func(c *models.Company) { c.MustDoTopics = []string{"DP", ""} }, "Must_Do_Topics.1"},
		{"bad submitter email", func(c *models.Company) { c.SubmittedBy.Email = "nope" }, "submittedBy.email"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validCompany()
			tc.mutate(c)

			err := validation.ValidateCompany(c)
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("err = %v, want validation failure", err)
			}
			var verr *apperrors.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err is %T, want *apperrors.ValidationError", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Errorf("fields = %v, want key %q", verr.Fields, tc.field)
			}
		})
	}
}
