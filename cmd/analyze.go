package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	stdlog "log"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sorinlupastean/cv-analyzer-backend/internal/analysis"
	"github.com/sorinlupastean/cv-analyzer-backend/internal/analysis/gemini"
	"github.com/sorinlupastean/cv-analyzer-backend/internal/document"
	"github.com/sorinlupastean/cv-analyzer-backend/internal/job"
	"github.com/sorinlupastean/cv-analyzer-backend/internal/logger"
	"github.com/sorinlupastean/cv-analyzer-backend/internal/secrets"
	"github.com/sorinlupastean/cv-analyzer-backend/internal/utils"
)

const (
	PromptShowSummaries = "Show summaries"
	PromptReport        = "Report by recommendation"
	PromptDump          = "Dump records to file"
	PromptQuit          = "Quit"

	defaultRetryDelay = 2 * time.Second
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowSummaries, PromptReport, PromptDump, PromptQuit},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] CV_FILE...",
	Short: "Analyze candidate CV documents against a job description",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("job", "J", "", "path to the job description file (yaml or json)")
	analyzeCmd.Flags().StringP("media-type", "m", "", "declared media type for the CV files. Default is inferred from the extension.")
	analyzeCmd.Flags().BoolP("auto-approve", "y", false, "dump records right away instead of asking what to do next")
	analyzeCmd.Flags().StringP("output", "o", "", "file to write analysis records to. Default is a temporary file.")

	analyzeCmd.MarkFlagRequired("job")

	viper.BindPFlag("output", analyzeCmd.Flags().Lookup("output"))
}

// analyze is the main command for the cli.
func analyze(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		stdlog.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	log.Info("starting the cv-analyzer", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	log.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	jobPath := cmd.Flag("job").Value.String()

	j, err := job.LoadFile(jobPath)
	if err != nil {
		log.Fatal("loading the job description", zap.Error(err))
	}

	if err := j.Validate(); err != nil {
		log.Fatal("validating the job description", zap.Error(err), zap.String("path", jobPath))
	}

	if j.IsClosed() {
		log.Fatal("job is closed; analysis is blocked",
			zap.String(logger.FieldJobTitle, j.Title),
		)
	}

	gcfg := geminiConfig(config)

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: gcfg.APIKey,
		File:  gcfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		log.Fatal("loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or the 'ai.gemini.api-key' key in the configuration file"),
		)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, gcfg.Model)
	if err != nil {
		log.Fatal("creating gemini generator", zap.Error(err))
	}

	analyzer := gemini.NewAnalyzer(
		generator,
		logger.WithProviderFields(log, "gemini", generator.Model()),
		gcfg.MaxLogLength,
	)

	jobText := j.Text()
	mediaType := cmd.Flag("media-type").Value.String()

	log.Info("starting the analysis",
		zap.String(logger.FieldJobTitle, j.Title),
		zap.Int("cv_count", len(args)),
	)

	records := &analysis.Records{}
	for _, path := range args {
		doc, err := document.Load(path, mediaType)
		if err != nil {
			log.Error("skipping document", zap.String("path", path), zap.Error(err))
			continue
		}

		result, err := analyzeWithRetry(ctx, analyzer, doc, jobText, gcfg, log)
		if err != nil {
			fields := append(logger.AnalysisFields(doc.Name, j.Title), zap.Error(err))
			if errors.Is(err, analysis.ErrInvalidModelOutput) {
				log.Error("the model returned malformed output", fields...)
			} else {
				log.Error("analysis failed", fields...)
			}
			continue
		}

		records.Append(analysis.NewRecord(generator.Model(), doc.Name, j.Title, result))

		log.Info("cv analyzed",
			zap.String(logger.FieldCVFile, doc.Name),
			zap.Int("match_score", result.MatchScore),
			zap.String("recommendation", string(result.Recommendation)),
		)
	}

	if records.Len() == 0 {
		log.Info("exiting", zap.String("reason", "no analyses produced"))
		return
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		if err := handleAction(PromptDump, records, log); err != nil {
			log.Fatal("exiting", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			log.Fatal("exiting", zap.Error(err))
		}

		log.Info("current list of records", zap.Int("count", records.Len()))

		if err := handleAction(action, records, log); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			log.Fatal("exiting", zap.Error(err))
		}
	}
}

// analyzeWithRetry retries upstream call failures only. Configuration
// errors and malformed model output are surfaced immediately.
func analyzeWithRetry(ctx context.Context, analyzer *gemini.Analyzer, doc *document.Document, jobText string, gcfg *GeminiConfig, log *zap.Logger) (*analysis.Result, error) {
	attempts := gcfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	delay := gcfg.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := analyzer.Analyze(ctx, doc, jobText)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if errors.Is(err, analysis.ErrMissingAPIKey) || errors.Is(err, analysis.ErrInvalidModelOutput) {
			return nil, err
		}

		if attempt == attempts {
			break
		}

		log.Warn("analysis attempt failed; retrying",
			zap.String(logger.FieldCVFile, doc.Name),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if err := utils.WaitFor(ctx, delay*time.Duration(attempt)); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func handleAction(action string, records *analysis.Records, log *zap.Logger) error {
	switch action {
	case PromptShowSummaries:
		for _, record := range records.Items {
			log.Info("analysis summary",
				zap.String(logger.FieldCVFile, record.CVFile),
				zap.String("candidate", record.Result.CandidateName),
				zap.Int("match_score", record.Result.MatchScore),
				zap.String("recommendation", string(record.Result.Recommendation)),
				zap.String("summary", record.Result.Summary),
			)
		}
		return nil
	case PromptReport:
		pretty, _ := json.MarshalIndent(records.ReportByRecommendation(), "", "  ")
		log.Info(string(pretty), zap.Int("records count", records.Len()))
		return nil
	case PromptDump:
		output := strings.TrimSpace(viper.GetString("output"))
		if output == "" {
			filename, err := records.DumpToTmpFile()
			if err != nil {
				return fmt.Errorf("dump records to file: %w", err)
			}
			log.Info("dumping records to file", zap.String("filename", filename))
			return nil
		}

		if err := records.DumpToFile(output); err != nil {
			return fmt.Errorf("dump records to file: %w", err)
		}
		log.Info("dumping records to file", zap.String("filename", output))
		return nil
	case PromptQuit:
		log.Info("exiting", zap.String("reason", "got quit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func geminiConfig(config *Config) *GeminiConfig {
	if config == nil || config.AI == nil || config.AI.Gemini == nil {
		return &GeminiConfig{}
	}
	return config.AI.Gemini
}
