package analysis

import (
	"context"
	"errors"

	"github.com/sorinlupastean/cv-analyzer-backend/internal/document"
)

// Recommendation is the final hiring verdict for a candidate.
type Recommendation string

const (
	RecommendationInvite Recommendation = "INVITA"
	RecommendationReview Recommendation = "REVIZUIRE"
	RecommendationReject Recommendation = "RESPINGE"
)

// Hard bounds for every list and long-text field of a Result. The model is
// instructed to respect them, but normalization enforces them regardless.
const (
	MaxLanguages           = 10
	MaxDomains             = 10
	MaxSkills              = 30
	MaxExperienceEntries   = 10
	MaxEducationEntries    = 10
	MaxResponsibilities    = 20
	MaxTechnologies        = 30
	MaxMatchedRequirements = 15
	MaxMissingRequirements = 15
	MaxRedFlags            = 10
	MaxEvidenceItems       = 10
	MaxEvidenceChars       = 120
	MaxSummaryChars        = 1200
	MaxReasoningChars      = 700
)

var (
	// ErrMissingAPIKey indicates the Gemini credential is not configured.
	// This is a configuration failure and is never retried.
	ErrMissingAPIKey = errors.New("gemini api key is not configured")

	// ErrInvalidModelOutput indicates the model answer did not contain a
	// syntactically valid JSON document. Field-level violations are never
	// reported through this error; they are normalized away instead.
	ErrInvalidModelOutput = errors.New("model returned malformed output")
)

// Experience is one entry of a candidate's work history. Title is the only
// required field; entries without a title are dropped during normalization.
type Experience struct {
	Title            string   `json:"title"`
	Company          string   `json:"company,omitempty"`
	StartDate        string   `json:"startDate,omitempty"`
	EndDate          string   `json:"endDate,omitempty"`
	Location         string   `json:"location,omitempty"`
	Responsibilities []string `json:"responsibilities"`
	Technologies     []string `json:"technologies"`
}

// Education is one entry of a candidate's education history. School is the
// only required field; entries without a school are dropped.
type Education struct {
	School    string `json:"school"`
	Degree    string `json:"degree,omitempty"`
	Field     string `json:"field,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// Result is the canonical outcome of analyzing one CV against one job.
// Every list field respects its Max* bound, every string is trimmed,
// MatchScore is an integer in [0,100] and Recommendation is always one of
// the three fixed categories. Email and Phone are nil when not extracted.
type Result struct {
	CandidateName string  `json:"candidateName"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`

	Languages []string `json:"languages"`
	Domains   []string `json:"domains"`

	Skills     []string     `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`

	MatchedRequirements []string `json:"matchedRequirements"`
	MissingRequirements []string `json:"missingRequirements"`
	RedFlags            []string `json:"redFlags"`

	Summary        string         `json:"summary"`
	MatchScore     int            `json:"matchScore"`
	Recommendation Recommendation `json:"recommendation"`

	ReasoningShort string   `json:"reasoningShort"`
	Evidence       []string `json:"evidence"`
}

// Analyzer evaluates a candidate document against a job description.
type Analyzer interface {
	Analyze(ctx context.Context, doc *document.Document, jobText string) (*Result, error)
}
