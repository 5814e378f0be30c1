package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/excel-interviewer/internal/ai/huggingface"
	"github.com/spigell/excel-interviewer/internal/interview"
	"github.com/spigell/excel-interviewer/internal/interviewer"
)

const (
	app       = "excel-interviewer"
	envPrefix = "INTERVIEWER"
)

type Config struct {
	QuestionsFile string    `mapstructure:"questions-file"`
	MaxQuestions  int       `mapstructure:"max-questions"`
	Interviewer   string    `mapstructure:"interviewer"`
	AI            *AIConfig `mapstructure:"ai"`
}

type AIConfig struct {
	Enabled      bool               `mapstructure:"enabled"`
	Provider     string             `mapstructure:"provider"`
	Timeout      time.Duration      `mapstructure:"timeout"`
	MaxLogLength int                `mapstructure:"max-log-length"`
	Gemini       *GeminiConfig      `mapstructure:"gemini"`
	HuggingFace  *HuggingFaceConfig `mapstructure:"huggingface"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type HuggingFaceConfig struct {
	TokenFile         string `mapstructure:"token-file"`
	GenerationURL     string `mapstructure:"generation-url"`
	ClassificationURL string `mapstructure:"classification-url"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "excel-interviewer runs a scripted Excel mock interview in the terminal",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is excel-interviewer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("questions-file", "q", "", "question document (json or yaml). Built-in questions are used when unset or unusable")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("questions-file", rootCmd.PersistentFlags().Lookup("questions-file"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("questions-file", "questions.json")
	viper.SetDefault("max-questions", interview.DefaultQuestionCeiling)
	viper.SetDefault("interviewer", interviewer.DefaultInterviewer)

	viper.SetDefault("ai.enabled", false)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.timeout", 10*time.Second)
	viper.SetDefault("ai.max-log-length", 200)
	viper.SetDefault("ai.gemini.api-key-file", "")
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.max-retries", 2)
	viper.SetDefault("ai.huggingface.token-file", "")
	viper.SetDefault("ai.huggingface.generation-url", huggingface.DefaultGenerationURL)
	viper.SetDefault("ai.huggingface.classification-url", huggingface.DefaultClassificationURL)
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		// An explicitly requested config must be readable.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return config, nil
}
