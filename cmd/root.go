package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "screener"
)

type Config struct {
	Gemini  *GeminiConfig  `mapstructure:"gemini"`
	Storage *StorageConfig `mapstructure:"storage"`
	Resume  *ResumeConfig  `mapstructure:"resume"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type StorageConfig struct {
	// Backend selects where transcripts go: "file" (default) or "sqlite".
	Backend string `mapstructure:"backend"`
	// Dir is the transcript directory for the file backend.
	Dir string `mapstructure:"dir"`
	// Path is the database file for the sqlite backend.
	Path string `mapstructure:"path"`
}

type ResumeConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "screener is a cli that runs automated candidate screening interviews for TalentScout",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is screener.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for the run command.
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The interview runs fine on defaults, so a missing default config file
	// is not an error. A config file parsed with errors is.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	if config.Gemini == nil {
		config.Gemini = &GeminiConfig{}
	}
	if config.Storage == nil {
		config.Storage = &StorageConfig{}
	}
	if config.Storage.Backend == "" {
		config.Storage.Backend = "file"
	}
	if config.Storage.Dir == "" {
		config.Storage.Dir = "data"
	}
	if config.Storage.Path == "" {
		config.Storage.Path = app + ".db"
	}
	if config.Resume == nil {
		config.Resume = &ResumeConfig{Enabled: true}
	}

	return config, nil
}
