package analysis

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Record wraps one analysis result with the invocation metadata the caller
// needs to persist or display it. The core keeps no history: every
// invocation produces a fresh record and the caller owns its lifecycle.
type Record struct {
	ID         string    `json:"id"`
	Model      string    `json:"model"`
	CVFile     string    `json:"cvFile"`
	JobTitle   string    `json:"jobTitle"`
	AnalyzedAt time.Time `json:"analyzedAt"`
	Result     *Result   `json:"result"`
}

// NewRecord builds a record for a freshly produced result.
func NewRecord(model, cvFile, jobTitle string, result *Result) *Record {
	return &Record{
		ID:         uuid.NewString(),
		Model:      model,
		CVFile:     cvFile,
		JobTitle:   jobTitle,
		AnalyzedAt: time.Now().UTC(),
		Result:     result,
	}
}

type Records struct {
	Items []*Record
}

func (r *Records) Len() int {
	return len(r.Items)
}

func (r *Records) Append(record *Record) {
	r.Items = append(r.Items, record)
}

// ReportByRecommendation groups a short summary of each record under its
// recommendation category.
func (r *Records) ReportByRecommendation() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, record := range r.Items {
		if record.Result == nil {
			continue
		}
		key := string(record.Result.Recommendation)
		report[key] = append(report[key], map[string]string{
			"cv_file":     record.CVFile,
			"candidate":   record.Result.CandidateName,
			"match_score": strconv.Itoa(record.Result.MatchScore),
			"summary":     record.Result.Summary,
		})
	}
	return report
}

func (r *Records) DumpToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func (r *Records) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "analyses_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}
