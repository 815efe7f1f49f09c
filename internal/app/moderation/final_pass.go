package moderation

import (
	"strings"

	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/pkg/sanitize"
)

// FinalPass re-sanitizes every user-authored field of c and applies the
// field ceilings. Content arrays lose empty and repeated entries; online
// questions that repeat an earlier one donate their solution to it.
func FinalPass(c *models.Company) {
	c.Name = sanitize.Truncate(c.Name, sanitize.MaxCompanyName)
	c.Type = sanitize.Sanitize(c.Type)
	c.BusinessModel = sanitize.Truncate(c.BusinessModel, sanitize.MaxBusinessModel)
	c.Eligibility = sanitize.Truncate(c.Eligibility, sanitize.MaxEligibility)

	for i := range c.Roles {
		c.Roles[i].RoleName = sanitize.Truncate(c.Roles[i].RoleName, sanitize.MaxRoleName)
	}
	for i := range c.SelectedCandidates {
		c.SelectedCandidates[i].Name = sanitize.Truncate(c.SelectedCandidates[i].Name, sanitize.MaxCompanyName)
		c.SelectedCandidates[i].EmailID = strings.TrimSpace(c.SelectedCandidates[i].EmailID)
	}

	c.OnlineQuestions = cleanOnlineQuestions(c.OnlineQuestions)
	c.InterviewQuestions = sanitize.CleanList(c.InterviewQuestions, sanitize.MaxInterviewQuestion)
	c.InterviewProcess = sanitize.CleanList(c.InterviewProcess, sanitize.MaxProcessStep)
	c.MustDoTopics = sanitize.CleanList(c.MustDoTopics, sanitize.MaxTopic)
	c.MCQQuestions = cleanMCQs(c.MCQQuestions)

	c.JobDescription = cleanJobDescriptions(c.JobDescription)
}

func cleanJobDescriptions(in []models.JobDescription) []models.JobDescription {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.JobDescription, 0, len(in))
	for _, jd := range in {
		jd.Title = sanitize.Truncate(jd.Title, sanitize.MaxJobTitle)
		jd.FileURL = strings.TrimSpace(jd.FileURL)
		jd.FileType = strings.ToLower(strings.TrimSpace(jd.FileType))
		if jd.Title == "" && jd.FileURL == "" {
			continue
		}
		out = append(out, jd)
	}
	return out
}

func cleanOnlineQuestions(in []models.OnlineQuestion) []models.OnlineQuestion {
	out := make([]models.OnlineQuestion, 0, len(in))
	index := make(map[string]int, len(in))
	for _, q := range in {
		question := sanitize.Truncate(q.Question, sanitize.MaxQuestion)
		if question == "" {
			continue
		}
		solution := sanitize.Truncate(q.Solution, sanitize.MaxSolution)

		if i, dup := index[question]; dup {
			if solution != "" && !containsSolution(out[i].Solution, solution) {
				out[i].Solution = joinSolutions(out[i].Solution, solution)
			}
			continue
		}
		index[question] = len(out)
		out = append(out, models.OnlineQuestion{Question: question, Solution: solution})
	}
	return out
}

func cleanMCQs(in []models.MCQ) []models.MCQ {
	out := make([]models.MCQ, 0, len(in))
	for _, q := range in {
		q.Question = sanitize.Truncate(q.Question, sanitize.MaxMCQQuestion)
		if q.Question == "" {
			continue
		}
		q.OptionA = sanitize.Truncate(q.OptionA, sanitize.MaxMCQOption)
		q.OptionB = sanitize.Truncate(q.OptionB, sanitize.MaxMCQOption)
		q.OptionC = sanitize.Truncate(q.OptionC, sanitize.MaxMCQOption)
		q.OptionD = sanitize.Truncate(q.OptionD, sanitize.MaxMCQOption)
		q.Answer = sanitize.Truncate(q.Answer, sanitize.MaxMCQOption)
		out = append(out, q)
	}
	return out
}
