package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/excel-interviewer/internal/ai"
	"github.com/spigell/excel-interviewer/internal/ai/gemini"
	"github.com/spigell/excel-interviewer/internal/ai/huggingface"
	"github.com/spigell/excel-interviewer/internal/interviewer"
	"github.com/spigell/excel-interviewer/internal/logger"
	"github.com/spigell/excel-interviewer/internal/questions"
	"github.com/spigell/excel-interviewer/internal/scoring"
	"github.com/spigell/excel-interviewer/internal/secrets"
)

const (
	PromptShowTranscript = "Show transcript"
	PromptDumpTranscript = "Dump transcript to file"
	PromptExit           = "Exit"
)

var errExit = errors.New("exit requested")

var wrapupPrompt = promptui.Select{
	Label: "Interview complete. What next?",
	Items: []string{PromptShowTranscript, PromptDumpTranscript, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a mock Excel interview",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("name", "n", "", "candidate name. Asked interactively when unset")
	runCmd.Flags().Int("max-questions", 0, "no new phase starts once this many questions were asked (default 18)")
	runCmd.Flags().Bool("ai", false, "enrich follow-ups and the final report with the configured AI provider")

	viper.BindPFlag("name", runCmd.Flags().Lookup("name"))
	viper.BindPFlag("max-questions", runCmd.Flags().Lookup("max-questions"))
	viper.BindPFlag("ai.enabled", runCmd.Flags().Lookup("ai"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		logger.Fatal("config is required")
	}

	logger.Info("starting the excel-interviewer", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	bank := questions.Load(config.QuestionsFile, logger)
	logger.Info("question bank ready",
		zap.String("source", bank.Source()),
		zap.Int("questions", bank.Len()),
		zap.Bool("fallback", bank.IsFallback()),
	)

	scorer := scoring.New(logger)
	for _, rule := range scorer.Describe() {
		logger.Debug("scoring rule configured",
			zap.String("rule", rule.Name),
			zap.String("dimension", string(rule.Dimension)),
			zap.Any("details", rule.Details),
		)
	}

	driver, err := interviewer.New(interviewer.Config{
		Interviewer:  config.Interviewer,
		MaxQuestions: config.MaxQuestions,
	}, interviewer.Deps{
		Bank:      bank,
		Scorer:    scorer,
		Assistant: newAssistant(ctx, config, logger),
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("creating the interviewer", zap.Error(err))
	}

	name := strings.TrimSpace(viper.GetString("name"))
	if name == "" {
		name, err = askName()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
	}

	c := &console{
		driver: driver,
		out:    cmd.OutOrStdout(),
		read:   readLine,
		logger: logger,
	}

	if err := c.interview(ctx, name); err != nil {
		if errors.Is(err, errExit) {
			return
		}
		logger.Fatal("exiting", zap.Error(err))
	}

	for {
		_, action, err := wrapupPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := c.handleAction(action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func askName() (string, error) {
	p := promptui.Prompt{
		Label: "Your name",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return interviewer.ErrEmptyName
			}
			return nil
		},
	}
	return p.Run()
}

func readLine(label string) (string, error) {
	p := promptui.Prompt{Label: label}
	return p.Run()
}

// newAssistant builds the configured enrichment provider. Any problem disables enrichment.
func newAssistant(ctx context.Context, config *Config, logger *zap.Logger) ai.Assistant {
	cfg := config.AI
	if cfg == nil || !cfg.Enabled {
		return ai.Disabled{}
	}

	provider, err := newProvider(ctx, cfg, config.Interviewer, logger)
	if err != nil {
		logger.Warn("ai enrichment disabled", zap.Error(err))
		return ai.Disabled{}
	}

	logger.Info("ai enrichment enabled",
		zap.String("provider", provider.Name()),
		zap.String("model", provider.Model()),
	)

	return ai.NewBestEffort(provider, logger, cfg.Timeout, cfg.MaxLogLength)
}

func newProvider(ctx context.Context, cfg *AIConfig, interviewerName string, logger *zap.Logger) (ai.Provider, error) {
	switch strings.TrimSpace(strings.ToLower(cfg.Provider)) {
	case "", "gemini":
		gcfg := cfg.Gemini
		if gcfg == nil {
			gcfg = &GeminiConfig{}
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: gcfg.APIKeyFile,
			Env:  "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
		}

		return gemini.NewGenerator(ctx, apiKey, gemini.Options{
			Model:             gcfg.Model,
			SystemInstruction: fmt.Sprintf("You are %s, an Excel expert conducting a technical interview.", interviewerName),
			Temperature:       0.7,
			MaxRetries:        gcfg.MaxRetries,
		}, logger)
	case "huggingface":
		hcfg := cfg.HuggingFace
		if hcfg == nil {
			hcfg = &HuggingFaceConfig{}
		}

		token, err := secrets.Load(secrets.Source{
			Name: "hugging face token",
			File: hcfg.TokenFile,
			Env:  "HF_TOKEN",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.huggingface.token-file or HF_TOKEN)", err)
		}

		client := huggingface.New(logger, token)
		if url := strings.TrimSpace(hcfg.GenerationURL); url != "" {
			client.GenerationURL = url
		}
		if url := strings.TrimSpace(hcfg.ClassificationURL); url != "" {
			client.ClassificationURL = url
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}
