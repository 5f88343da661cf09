package gemini

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sorinlupastean/cv-analyzer-backend/internal/analysis"
)

// normalizeAnalysis turns the raw model answer into a bounded Result. Field
// level violations never fail the whole operation: each field falls back to
// a safe default independently. The only unrecoverable case is an answer
// whose extracted payload is not syntactically valid JSON.
func normalizeAnalysis(raw string) (*analysis.Result, error) {
	candidate := extractJSON(raw)

	var obj map[string]any
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", analysis.ErrInvalidModelOutput, err)
	}

	return &analysis.Result{
		CandidateName: strings.TrimSpace(coerceString(obj["candidateName"])),
		Email:         normalizeEmail(obj["email"]),
		Phone:         normalizePhone(obj["phone"]),

		Languages: stringList(obj["languages"], analysis.MaxLanguages),
		Domains:   stringList(obj["domains"], analysis.MaxDomains),

		Skills:     stringList(obj["skills"], analysis.MaxSkills),
		Experience: normalizeExperience(obj["experience"]),
		Education:  normalizeEducation(obj["education"]),

		MatchedRequirements: stringList(obj["matchedRequirements"], analysis.MaxMatchedRequirements),
		MissingRequirements: stringList(obj["missingRequirements"], analysis.MaxMissingRequirements),
		RedFlags:            stringList(obj["redFlags"], analysis.MaxRedFlags),

		Summary:        longText(obj["summary"], analysis.MaxSummaryChars),
		MatchScore:     clampScore(obj["matchScore"]),
		Recommendation: normalizeRecommendation(obj["recommendation"]),

		ReasoningShort: longText(obj["reasoningShort"], analysis.MaxReasoningChars),
		Evidence:       capEach(stringList(obj["evidence"], analysis.MaxEvidenceItems), analysis.MaxEvidenceChars),
	}, nil
}

// extractJSON isolates the JSON payload from answers that wrap it in prose
// or code fences: everything from the first '{' to the last '}' inclusive.
// No braces at all yields an empty object; a dangling opening brace is left
// for the parser to reject.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return "{}"
	}

	end := strings.LastIndex(s, "}")
	if end <= start {
		return s[start:]
	}

	return s[start : end+1]
}

// coerceString renders any JSON value as a string, mirroring what the
// schema promises for string fields. Nulls become empty and are dropped by
// the list/trim rules downstream.
func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		bytes, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(bytes)
	}
}

// stringList coerces v into a trimmed, deduplicated string slice capped at
// max entries. First occurrence wins; non-array input yields an empty set.
func stringList(v any, max int) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, min(len(items), max))
	for _, item := range items {
		s := strings.TrimSpace(coerceString(item))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		if len(out) == max {
			break
		}
	}

	return out
}

func capEach(items []string, max int) []string {
	for i, item := range items {
		items[i] = capRunes(item, max)
	}
	return items
}

func capRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func longText(v any, max int) string {
	return capRunes(strings.TrimSpace(coerceString(v)), max)
}

func clampScore(v any) int {
	n := coerceFloat(v)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}

	n = math.Round(n)
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}

	return int(n)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func normalizeEmail(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}

	s = strings.TrimSpace(s)
	if s == "" || !strings.Contains(s, "@") || len(s) < 5 {
		return nil
	}

	return &s
}

// normalizePhone keeps the original trimmed string when it carries at least
// 8 digit-equivalent characters (digits plus an optional leading '+').
func normalizePhone(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if strings.HasPrefix(s, "+") {
		digits++
	}

	if digits < 8 {
		return nil
	}

	return &s
}

func normalizeRecommendation(v any) analysis.Recommendation {
	raw := analysis.Recommendation(strings.ToUpper(strings.TrimSpace(coerceString(v))))
	switch raw {
	case analysis.RecommendationInvite, analysis.RecommendationReview, analysis.RecommendationReject:
		return raw
	default:
		return analysis.RecommendationReview
	}
}

// normalizeExperience caps the source array BEFORE filtering out entries
// without a title, so fewer than the maximum may survive even when valid
// entries exist further in the input. This matches the persisted behavior
// the UI relies on.
func normalizeExperience(v any) []analysis.Experience {
	items, ok := v.([]any)
	if !ok {
		return []analysis.Experience{}
	}

	if len(items) > analysis.MaxExperienceEntries {
		items = items[:analysis.MaxExperienceEntries]
	}

	out := make([]analysis.Experience, 0, len(items))
	for _, item := range items {
		m, _ := item.(map[string]any)

		entry := analysis.Experience{
			Title:            strings.TrimSpace(coerceString(m["title"])),
			Company:          strings.TrimSpace(coerceString(m["company"])),
			StartDate:        strings.TrimSpace(coerceString(m["startDate"])),
			EndDate:          strings.TrimSpace(coerceString(m["endDate"])),
			Location:         strings.TrimSpace(coerceString(m["location"])),
			Responsibilities: stringList(m["responsibilities"], analysis.MaxResponsibilities),
			Technologies:     stringList(m["technologies"], analysis.MaxTechnologies),
		}

		if entry.Title == "" {
			continue
		}

		out = append(out, entry)
	}

	return out
}

func normalizeEducation(v any) []analysis.Education {
	items, ok := v.([]any)
	if !ok {
		return []analysis.Education{}
	}

	if len(items) > analysis.MaxEducationEntries {
		items = items[:analysis.MaxEducationEntries]
	}

	out := make([]analysis.Education, 0, len(items))
	for _, item := range items {
		m, _ := item.(map[string]any)

		entry := analysis.Education{
			School:    strings.TrimSpace(coerceString(m["school"])),
			Degree:    strings.TrimSpace(coerceString(m["degree"])),
			Field:     strings.TrimSpace(coerceString(m["field"])),
			StartDate: strings.TrimSpace(coerceString(m["startDate"])),
			EndDate:   strings.TrimSpace(coerceString(m["endDate"])),
		}

		if entry.School == "" {
			continue
		}

		out = append(out, entry)
	}

	return out
}
