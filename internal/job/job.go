package job

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusClosed Status = "CLOSED"
)

// Job describes one open position. Description and Requirements are free
// text; the remaining fields are short labels shown to the model as-is.
type Job struct {
	Title        string `yaml:"title" json:"title"`
	Category     string `yaml:"category" json:"category"`
	Location     string `yaml:"location" json:"location"`
	Type         string `yaml:"type" json:"type"`
	Description  string `yaml:"description" json:"description"`
	Requirements string `yaml:"requirements" json:"requirements"`
	Status       Status `yaml:"status" json:"status"`
}

func (j *Job) Validate() error {
	if strings.TrimSpace(j.Title) == "" {
		return fmt.Errorf("job title is required")
	}
	if strings.TrimSpace(j.Description) == "" {
		return fmt.Errorf("job description is required")
	}
	return nil
}

// IsClosed reports whether the job no longer accepts candidates. Closed
// jobs block analysis.
func (j *Job) IsClosed() bool {
	return Status(strings.ToUpper(strings.TrimSpace(string(j.Status)))) == StatusClosed
}

// Text assembles the job context block embedded verbatim into the model
// prompt. The labels match the ones the recruiting UI displays.
func (j *Job) Text() string {
	lines := []string{
		"Titlu: " + j.Title,
		"Categorie: " + j.Category,
		"Locație: " + j.Location,
		"Tip: " + j.Type,
		"Descriere: " + j.Description,
		"Cerințe: " + j.Requirements,
	}
	return strings.Join(lines, "\n")
}
