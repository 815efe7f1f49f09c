package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CompanyStatus is the moderation state of a company record
type CompanyStatus string

const (
	CompanyPending  CompanyStatus = "pending"
	CompanyApproved CompanyStatus = "approved"
	CompanyRejected CompanyStatus = "rejected"
)

// Valid reports whether s is a known status
func (s CompanyStatus) Valid() bool {
	switch s {
	case CompanyPending, CompanyApproved, CompanyRejected:
		return true
	}
	return false
}

// Legacy document keys that held online question solutions before they were
// folded into the question records. Listed in migration precedence order.
var LegacySolutionKeys = []string{
	"onlineQuestions_solution",
	"onlineQuestion_solution",
	"onlineQuestion_solutions",
}

// Submitter identifies who created a record
type Submitter struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Role is one hiring role offered by a company
type Role struct {
	RoleName          string  `json:"roleName"`
	CTC               CTC     `json:"ctc"`
	InternshipStipend float64 `json:"internshipStipend"`
	FinalPayFirstYear string  `json:"finalPayFirstYear,omitempty"`
	FinalPayAnnual    string  `json:"finalPayAnnual,omitempty"`
}

// OnlineQuestion pairs an online-assessment question with its solution.
// Multiple approved solutions are joined by a blank line.
type OnlineQuestion struct {
	Question string `json:"question"`
	Solution string `json:"solution"`
}

// MCQ is a multiple choice question
type MCQ struct {
	Question string `json:"question"`
	OptionA  string `json:"optionA"`
	OptionB  string `json:"optionB"`
	OptionC  string `json:"optionC"`
	OptionD  string `json:"optionD"`
	Answer   string `json:"answer"`
}

// JobDescription points at an uploaded JD document
type JobDescription struct {
	Title    string `json:"title"`
	FileURL  string `json:"fileUrl"`
	FileType string `json:"fileType"`
}

// SelectedCandidate is a student who received an offer
type SelectedCandidate struct {
	Name    string `json:"name"`
	EmailID string `json:"emailId"`
}

// Count is the number of selected students as the submitter wrote it.
// Older documents store a number, newer ones a string.
type Count string

// UnmarshalJSON accepts a JSON string, number or null.
func (n *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*n = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Count(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("count must be a string or number: %w", err)
	}
	*n = Count(num.String())
	return nil
}

// Company is the schema-flexible company document. Keys the struct does not
// know about are kept in Extra and written back unchanged.
type Company struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	BusinessModel string    `json:"business_model,omitempty"`
	Eligibility   string    `json:"eligibility,omitempty"`
	Logo          string    `json:"logo,omitempty"`
	VideoKey      string    `json:"videoKey,omitempty"`
	DateOfVisit   string    `json:"date_of_visit,omitempty"`

	Roles              []Role              `json:"roles"`
	SelectedCandidates []SelectedCandidate `json:"selectedCandidates,omitempty"`
	Count              Count               `json:"count,omitempty"`

	OnlineQuestions    []OnlineQuestion `json:"onlineQuestions"`
	InterviewQuestions []string         `json:"interviewQuestions"`
	InterviewProcess   []string         `json:"interviewProcess"`
	MustDoTopics       []string         `json:"Must_Do_Topics"`
	MCQQuestions       []MCQ            `json:"mcqQuestions"`
	JobDescription     []JobDescription `json:"jobDescription,omitempty"`

	Status      CompanyStatus `json:"status"`
	SubmittedBy Submitter     `json:"submittedBy"`

	HelpfulCount             int      `json:"helpfulCount"`
	HelpfulUsers             []string `json:"helpfulUsers"`
	DifficultyRatings        []int    `json:"difficulty_ratings"`
	InterviewDifficultyLevel float64  `json:"interview_difficulty_level"`
	DifficultyRatingCount    int      `json:"difficulty_rating_count"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Extra map[string]json.RawMessage `json:"-"`
}

// companyFields is the set of keys the Company struct owns
var companyFields = map[string]struct{}{
	"id": {}, "name": {}, "type": {}, "business_model": {}, "eligibility": {},
	"logo": {}, "videoKey": {}, "date_of_visit": {}, "roles": {},
	"selectedCandidates": {}, "count": {}, "onlineQuestions": {},
	"interviewQuestions": {}, "interviewProcess": {}, "Must_Do_Topics": {},
	"mcqQuestions": {}, "jobDescription": {}, "status": {}, "submittedBy": {},
	"helpfulCount": {}, "helpfulUsers": {}, "difficulty_ratings": {},
	"interview_difficulty_level": {}, "difficulty_rating_count": {},
	"createdAt": {}, "updatedAt": {},
}

// companyDoc has Company's fields without its methods
type companyDoc Company

// UnmarshalJSON decodes a company document, upgrading legacy shapes:
// a single-string interviewProcess becomes a one-step sequence, bare
// string online questions become records with an empty solution and a
// lone jobDescription object becomes a one-element list.
func (c *Company) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["interviewProcess"]; ok {
		raw["interviewProcess"] = upgradeProcess(v)
	}
	if v, ok := raw["onlineQuestions"]; ok {
		upgraded, err := upgradeOnlineQuestions(v)
		if err != nil {
			return err
		}
		raw["onlineQuestions"] = upgraded
	}
	if v, ok := raw["jobDescription"]; ok {
		raw["jobDescription"] = upgradeJobDescription(v)
	}

	known := make(map[string]json.RawMessage, len(raw))
	extra := make(map[string]json.RawMessage)
	for k, v := range raw {
		if _, ok := companyFields[k]; ok {
			known[k] = v
		} else {
			extra[k] = v
		}
	}

	// Documents imported from elsewhere may carry foreign id shapes; the
	// store assigns the id from its own column.
	if v, ok := known["id"]; ok {
		var s string
		if json.Unmarshal(v, &s) != nil {
			delete(known, "id")
		} else if _, err := uuid.Parse(s); err != nil {
			delete(known, "id")
		}
	}

	normalized, err := json.Marshal(known)
	if err != nil {
		return err
	}
	var doc companyDoc
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return err
	}
	*c = Company(doc)
	if len(extra) > 0 {
		c.Extra = extra
	}
	return nil
}

// MarshalJSON writes the known fields followed by any preserved extra keys.
func (c Company) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(companyDoc(c))
	if err != nil {
		return nil, err
	}
	if len(c.Extra) == 0 {
		return base, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range c.Extra {
		if _, taken := merged[k]; !taken {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// Questions returns the online questions as a plain list
func (c *Company) Questions() []string {
	out := make([]string, len(c.OnlineQuestions))
	for i, q := range c.OnlineQuestions {
		out[i] = q.Question
	}
	return out
}

// Solutions returns the solutions aligned index-for-index with Questions
func (c *Company) Solutions() []string {
	out := make([]string, len(c.OnlineQuestions))
	for i, q := range c.OnlineQuestions {
		out[i] = q.Solution
	}
	return out
}

// MigrateLegacySolutions copies solutions held under a legacy key into the
// question records whose solution is still empty, then drops every legacy
// key. It reports whether the document changed.
func (c *Company) MigrateLegacySolutions() bool {
	if len(c.Extra) == 0 {
		return false
	}

	changed := false
	for _, key := range LegacySolutionKeys {
		raw, ok := c.Extra[key]
		if !ok {
			continue
		}
		var legacy []string
		if err := json.Unmarshal(raw, &legacy); err == nil {
			for i := range c.OnlineQuestions {
				if i >= len(legacy) {
					break
				}
				if c.OnlineQuestions[i].Solution == "" && legacy[i] != "" {
					c.OnlineQuestions[i].Solution = legacy[i]
				}
			}
		}
		delete(c.Extra, key)
		changed = true
	}
	if len(c.Extra) == 0 {
		c.Extra = nil
	}
	return changed
}

// HasHelpfulVote reports whether email already marked the company helpful
func (c *Company) HasHelpfulVote(email string) bool {
	for _, u := range c.HelpfulUsers {
		if u == email {
			return true
		}
	}
	return false
}

func upgradeProcess(v json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(v)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return v
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return v
	}
	steps := []string{}
	if s != "" {
		steps = append(steps, s)
	}
	out, _ := json.Marshal(steps)
	return out
}

func upgradeJobDescription(v json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(v)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return v
	}
	out := make([]byte, 0, len(trimmed)+2)
	out = append(out, '[')
	out = append(out, trimmed...)
	return append(out, ']')
}

func upgradeOnlineQuestions(v json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(v)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return json.RawMessage("[]"), nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, err
	}
	records := make([]OnlineQuestion, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '"' {
			var q string
			if err := json.Unmarshal(item, &q); err != nil {
				return nil, err
			}
			records = append(records, OnlineQuestion{Question: q})
			continue
		}
		var rec OnlineQuestion
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return json.Marshal(records)
}
