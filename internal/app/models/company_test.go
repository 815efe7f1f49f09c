package models_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/yigit/placementprep/internal/app/models"
)

// ── Legacy document shapes ────────────────────────────────────────────────────

func TestCompanyUnmarshal_UpgradesLegacyShapes(t *testing.T) {
	doc := `{
		"name": "Acme",
		"type": "Product",
		"interviewProcess": "Online test then two rounds",
		"onlineQuestions": ["Reverse a linked list", {"question": "Two pointers", "solution": "sort first"}],
		"onlineQuestions_solution": ["iterate with prev pointer", "ignored"],
		"interviewQuestions_solution": ["kept as-is"]
	}`

	var c models.Company
	if err := json.Unmarshal([]byte(doc), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(c.InterviewProcess) != 1 || c.InterviewProcess[0] != "Online test then two rounds" {
		t.Errorf("interviewProcess = %v", c.InterviewProcess)
	}
	if got := c.Questions(); len(got) != 2 || got[0] != "Reverse a linked list" || got[1] != "Two pointers" {
		t.Errorf("questions = %v", got)
	}
	if _, ok := c.Extra["onlineQuestions_solution"]; !ok {
		t.Error("legacy solutions must survive decoding until migrated")
	}

	if !c.MigrateLegacySolutions() {
		t.Fatal("expected migration to report a change")
	}
	sols := c.Solutions()
	if sols[0] != "iterate with prev pointer" {
		t.Errorf("solutions[0] = %q", sols[0])
	}
	if sols[1] != "sort first" {
		t.Errorf("existing solution overwritten: %q", sols[1])
	}
	for _, key := range models.LegacySolutionKeys {
		if _, ok := c.Extra[key]; ok {
			t.Errorf("legacy key %q not removed", key)
		}
	}
	if _, ok := c.Extra["interviewQuestions_solution"]; !ok {
		t.Error("unrelated unknown key dropped")
	}
}

func TestCompanyUnmarshal_EmptyLegacyProcess(t *testing.T) {
	var c models.Company
	if err := json.Unmarshal([]byte(`{"name":"Acme","interviewProcess":""}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(c.InterviewProcess) != 0 {
		t.Errorf("interviewProcess = %v, want empty", c.InterviewProcess)
	}
}

func TestCompanyUnmarshal_ForeignIDDropped(t *testing.T) {
	var c models.Company
	if err := json.Unmarshal([]byte(`{"id":"65f1c0ffee","name":"Acme"}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.Name != "Acme" {
		t.Errorf("name = %q", c.Name)
	}
}

// ── Round trip ────────────────────────────────────────────────────────────────

func TestCompanyUnmarshal_JobDescriptionsAndCount(t *testing.T) {
	cases := []struct {
		name   string
		doc    string
		titles []string
		count  models.Count
	}{
		{
			name: "list of descriptions",
			doc: `{"name":"Acme","count":"12","jobDescription":[
				{"title":"SDE","fileUrl":"https://cdn.example.com/sde.pdf","fileType":"pdf"},
				{"title":"Intern","fileUrl":"https://cdn.example.com/intern.pdf","fileType":"pdf"}]}`,
			titles: []string{"SDE", "Intern"},
			count:  "12",
		},
		{
			name:   "single legacy object",
			doc:    `{"name":"Acme","count":7,"jobDescription":{"title":"SDE","fileUrl":"u","fileType":"pdf"}}`,
			titles: []string{"SDE"},
			count:  "7",
		},
		{
			name: "absent",
			doc:  `{"name":"Acme","count":null}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var c models.Company
			if err := json.Unmarshal([]byte(tc.doc), &c); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if len(c.JobDescription) != len(tc.titles) {
				t.Fatalf("jobDescription = %+v, want %d entries", c.JobDescription, len(tc.titles))
			}
			for i, title := range tc.titles {
				if c.JobDescription[i].Title != title {
					t.Errorf("jobDescription[%d].title = %q, want %q", i, c.JobDescription[i].Title, title)
				}
			}
			if c.Count != tc.count {
				t.Errorf("count = %q, want %q", c.Count, tc.count)
			}
		})
	}

	out, err := json.Marshal(models.Company{Name: "Acme", Count: "3", JobDescription: []models.JobDescription{{Title: "SDE"}}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"count":"3"`) || !strings.Contains(string(out), `"jobDescription":[{"title":"SDE"`) {
		t.Errorf("marshalled = %s", out)
	}
}

func TestCompanyMarshal_PreservesUnknownKeysAndCTCOrder(t *testing.T) {
	doc := `{"name":"Acme","customField":{"a":1},"roles":[{"roleName":"SDE","ctc":{"stock":4,"base":10},"internshipStipend":0}]}`

	var c models.Company
	if err := json.Unmarshal([]byte(doc), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	s := string(out)
	if !strings.Contains(s, `"customField":{"a":1}`) {
		t.Errorf("unknown key lost: %s", s)
	}
	if !strings.Contains(s, `"ctc":{"stock":4,"base":10}`) {
		t.Errorf("ctc order changed: %s", s)
	}
}

func TestHasHelpfulVote(t *testing.T) {
	c := models.Company{HelpfulUsers: []string{"a@x.edu"}}
	if !c.HasHelpfulVote("a@x.edu") {
		t.Error("expected existing vote")
	}
	if c.HasHelpfulVote("b@x.edu") {
		t.Error("unexpected vote")
	}
}
