package gemini

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/sorinlupastean/cv-analyzer-backend/internal/analysis"
	"github.com/sorinlupastean/cv-analyzer-backend/internal/document"
	"github.com/sorinlupastean/cv-analyzer-backend/internal/utils"
)

type documentGenerator interface {
	GenerateWithDocument(ctx context.Context, prompt, mimeType string, data []byte) (string, error)
	Model() string
}

// Analyzer evaluates one candidate document against one job description
// through a single Gemini call and normalizes the answer into a bounded
// analysis.Result.
type Analyzer struct {
	generator documentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// The prompt template is an external contract with the model provider,
// versioned separately from the normalization code.
//
//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewAnalyzer(generator documentGenerator, logger *zap.Logger, maxLogLength int) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Analyzer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Analyze builds the rubric-constrained prompt for jobText, sends it with
// the document attached inline and returns the canonicalized result.
func (a *Analyzer) Analyze(ctx context.Context, doc *document.Document, jobText string) (*analysis.Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is required")
	}
	if strings.TrimSpace(jobText) == "" {
		return nil, fmt.Errorf("job text is required")
	}

	prompt := buildPrompt(jobText)

	a.logger.Debug("gemini analyze request",
		zap.String("cv_file", doc.Name),
		zap.String("media_type", doc.MediaType),
		zap.Int("document_bytes", len(doc.Data)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateWithDocument(ctx, prompt, doc.MediaType, doc.Data)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini analyze response",
		zap.String("cv_file", doc.Name),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	return normalizeAnalysis(raw)
}

func buildPrompt(jobText string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "JOB:\n{{JOB_TEXT}}\n\nReturn ONLY valid JSON."
	}
	return strings.TrimSpace(strings.ReplaceAll(template, "{{JOB_TEXT}}", jobText))
}
