package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/yigit/placementprep/internal/app/models"
)

// stubRow feeds fixed column values to Scan
type stubRow struct {
	id        uuid.UUID
	name      string
	status    string
	doc       []byte
	createdAt time.Time
	updatedAt time.Time
	err       error
}

func (r stubRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*uuid.UUID) = r.id
	*dest[1].(*string) = r.name
	*dest[2].(*string) = r.status
	*dest[3].(*[]byte) = r.doc
	*dest[4].(*time.Time) = r.createdAt
	*dest[5].(*time.Time) = r.updatedAt
	return nil
}

func TestScanCompany_ColumnsOverrideDocument(t *testing.T) {
	id := uuid.New()
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	row := stubRow{
		id:     id,
		name:   "Acme Corp",
		status: "approved",
		doc: []byte(`{"id":"legacy-123","name":"stale","status":"pending",
			"interviewProcess":"Single round","onlineQuestions":["Q1"],
			"onlineQuestions_solution":["S1"]}`),
		createdAt: created,
		updatedAt: created.Add(time.Hour),
	}

	c, err := scanCompany(row)
	if err != nil {
		t.Fatalf("scanCompany: %v", err)
	}
	if c.ID != id || c.Name != "Acme Corp" || c.Status != models.CompanyApproved {
		t.Errorf("columns not applied: %+v", c)
	}
	if !c.CreatedAt.Equal(created) {
		t.Errorf("createdAt = %v", c.CreatedAt)
	}
	if len(c.InterviewProcess) != 1 || c.InterviewProcess[0] != "Single round" {
		t.Errorf("legacy interviewProcess not upgraded: %v", c.InterviewProcess)
	}
	if len(c.OnlineQuestions) != 1 || c.OnlineQuestions[0].Question != "Q1" {
		t.Errorf("online questions = %+v", c.OnlineQuestions)
	}
}

func TestScanCompany_Errors(t *testing.T) {
	boom := errors.New("boom")
	if _, err := scanCompany(stubRow{err: boom}); !errors.Is(err, boom) {
		t.Errorf("scan error not propagated: %v", err)
	}
	if _, err := scanCompany(stubRow{id: uuid.New(), doc: []byte(`not json`)}); err == nil {
		t.Error("expected decode error")
	}
}

func TestApplyFilter_SearchMatchesLiterally(t *testing.T) {
	r := &CompanyRepository{sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}
	tests := []struct {
		search string
		want   string
	}{
		{"acme", `%acme%`},
		{" 100% ", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`c:\x`, `%c:\\x%`},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			query, args, err := r.applyFilter(r.sb.Select("id").From("companies"), CompanyFilter{Search: tt.search}).ToSql()
			if err != nil {
				t.Fatalf("ToSql: %v", err)
			}
			if query != "SELECT id FROM companies WHERE name ILIKE $1" {
				t.Errorf("query = %q", query)
			}
			if len(args) != 1 || args[0] != tt.want {
				t.Errorf("args = %v, want %q", args, tt.want)
			}
		})
	}
}
