package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/talentscout/screener/internal/ai"
	"github.com/talentscout/screener/internal/ai/gemini"
	"github.com/talentscout/screener/internal/interview"
	"github.com/talentscout/screener/internal/logger"
	"github.com/talentscout/screener/internal/resume"
	"github.com/talentscout/screener/internal/secrets"
	"github.com/talentscout/screener/internal/transcript"
)

const resetCommand = "/reset"

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive screening interview",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("resume", true, "offer a resume upload step during the interview")
	runCmd.Flags().StringP("data-dir", "o", "", "directory for interview transcripts (file backend)")

	viper.BindPFlag("resume.enabled", runCmd.Flags().Lookup("resume"))
	viper.BindPFlag("storage.dir", runCmd.Flags().Lookup("data-dir"))
}

// run drives one interactive interview: one utterance in, one prompt out,
// until the candidate leaves or the terminal closes.
func run(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the screener", zap.String("version", version))

	generator := buildGenerator(ctx, config, logger)

	sink, closeSink, err := buildSink(config)
	if err != nil {
		logger.Fatal("setting up transcript storage", zap.Error(err))
	}
	defer closeSink()

	machine := interview.NewMachine(interview.MachineDeps{
		Generator:     generator,
		Sink:          sink,
		Logger:        logger,
		ResumeEnabled: config.Resume.Enabled,
	})
	session := interview.NewSession()

	say(machine.Opening(session))

	input := promptui.Prompt{Label: "You"}
	for {
		utterance, err := input.Run()
		if err != nil {
			// interrupt or closed input
			logger.Info("input closed, ending the session", zap.Stringer("stage", session.Stage))
			return
		}

		utterance = strings.TrimSpace(utterance)
		if utterance == "" {
			continue
		}

		// Session reset: everything is discarded in one swap, no turn can
		// observe a half-reset session.
		if utterance == resetCommand {
			session = interview.NewSession()
			logger.Info("session reset")
			say(machine.Opening(session))
			continue
		}

		say(machine.HandleTurn(ctx, session, utterance))

		if session.Stage == interview.StageResumeUpload {
			offerResumeUpload(ctx, machine, session, logger)
		}
	}
}

func say(text string) {
	fmt.Printf("\n%s\n\n", text)
}

// offerResumeUpload handles the out-of-band upload while the session sits in
// the resume stage. Empty input skips; extraction problems are shown to the
// candidate and the interview proceeds without resume facts.
func offerResumeUpload(ctx context.Context, machine *interview.Machine, session *interview.Session, logger *zap.Logger) {
	pathPrompt := promptui.Prompt{Label: "Resume file path (leave empty to skip)"}
	path, err := pathPrompt.Run()
	if err != nil || strings.TrimSpace(path) == "" {
		say("No problem - we can continue without a resume. Just send any message when you're ready.")
		return
	}
	path = strings.TrimSpace(path)

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("reading resume file", zap.String("path", path), zap.Error(err))
		say("I couldn't read that file, so we'll continue without the resume. Send any message when you're ready.")
		return
	}

	text, err := resume.ExtractText(data, resume.MimeTypeForPath(path))
	if err != nil {
		logger.Warn("extracting resume text", zap.String("path", path), zap.Error(err))
		say(fmt.Sprintf("I couldn't process that resume (%v), so we'll continue without it. Send any message when you're ready.", err))
		return
	}

	say(machine.AttachResume(ctx, session, filepath.Base(path), text))
}

// buildGenerator returns the Gemini backend when an API key is available and
// the always-failing backend otherwise, which keeps the interview functional
// on its deterministic fallbacks.
func buildGenerator(ctx context.Context, config *Config, logger *zap.Logger) ai.Generator {
	key, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
		File:  config.Gemini.APIKeyFile,
	})
	if err != nil {
		logger.Warn("gemini api key not configured, running with built-in fallback questions",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or the 'gemini.api-key' key in the configuration file"),
		)
		return ai.Unavailable{}
	}

	generator, err := gemini.NewGenerator(ctx, key, config.Gemini.Model)
	if err != nil {
		logger.Warn("creating gemini generator, running with built-in fallback questions", zap.Error(err))
		return ai.Unavailable{}
	}

	logger.Info("gemini backend ready", zap.String("model", generator.Model()))
	return generator
}

func buildSink(config *Config) (interview.TranscriptSink, func(), error) {
	switch config.Storage.Backend {
	case "file":
		return transcript.NewFileStore(config.Storage.Dir), func() {}, nil
	case "sqlite":
		store, err := transcript.OpenSQLiteStore(config.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}
}
