package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "profile-matcher"
)

type Config struct {
	Data string `mapstructure:"data"`
	// DataTokenFile holds a bearer token for datasets served over HTTP.
	DataTokenFile string   `mapstructure:"data-token-file"`
	KeyStrategy   string   `mapstructure:"key-strategy"`
	IDAttribute   string   `mapstructure:"id-attribute"`
	Criteria      []string `mapstructure:"criteria"`
	// Weights stay raw so they pass through the same validation as typed input.
	Weights  map[string]string `mapstructure:"weights"`
	Rules    map[string]any    `mapstructure:"rules"`
	Matching *MatchingConfig   `mapstructure:"matching"`
	Filters  *FiltersConfig    `mapstructure:"filters"`
	AI       *AIConfig         `mapstructure:"ai"`
}

type MatchingConfig struct {
	Scorer         string       `mapstructure:"scorer"`
	BaseWeights    *BaseWeights `mapstructure:"base-weights"`
	FuzzyThreshold float64      `mapstructure:"fuzzy-threshold"`
}

type BaseWeights struct {
	Exact    float64 `mapstructure:"exact"`
	Range    float64 `mapstructure:"range"`
	Partial  float64 `mapstructure:"partial"`
	Optional float64 `mapstructure:"optional"`
}

type FiltersConfig struct {
	MinimumScore float64 `mapstructure:"minimum-score"`
	Limit        int     `mapstructure:"limit"`
	ExcludeFile  string  `mapstructure:"exclude-file"`
	DropFailed   bool    `mapstructure:"drop-failed"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "profile-matcher scores imported profiles against weighted attribute:value criteria",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("data", "PM_DATA_FILE"); err != nil {
		log.Fatalf("binding PM_DATA_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is profile-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("data", "", "dataset to match against (csv, json or yaml)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))
}

func initConfig() {
	// The version command works without any configuration.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// A missing default config is fine, everything can come from flags and env.
	// An explicit or broken one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}
