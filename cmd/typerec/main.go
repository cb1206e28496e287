// Package main provides the CLI entrypoint for typerec.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/typerec/internal/audio"
	"github.com/verte-zerg/typerec/internal/config"
	"github.com/verte-zerg/typerec/internal/generator"
	"github.com/verte-zerg/typerec/internal/logging"
	"github.com/verte-zerg/typerec/internal/model"
	"github.com/verte-zerg/typerec/internal/review"
	"github.com/verte-zerg/typerec/internal/tui"
	"github.com/verte-zerg/typerec/internal/wordlist"
)

var (
	practiceLang       string
	practiceWords      int
	practiceCaps       float64
	practicePunct      float64
	practicePunctSet   string
	practiceSeconds    int
	practicePaletteKey string

	recordKeys       bool
	recordAudio      bool
	audioBackend     string
	audioFFMPEG      string
	audioInputFormat string
	audioInputDevice string
	audioSampleRate  int
	audioChannels    int
	logPath          string
	logLevel         string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	d := config.Defaults()
	rootCmd := &cobra.Command{
		Use:           "typerec",
		Short:         "TUI typing trainer that records keystrokes and audio",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&practiceLang, "lang", d.Lang, "language code")
	flags.IntVar(&practiceWords, "words", d.Words, "words per text")
	flags.Float64Var(&practiceCaps, "caps", d.CapsPct, "probability of capitalized first letter (0-1)")
	flags.Float64Var(&practicePunct, "punct", d.PunctPct, "punctuation probability per word (0-1)")
	flags.StringVar(&practicePunctSet, "punct-set", d.PunctSet, "punctuation set")
	flags.IntVar(&practiceSeconds, "seconds", int(d.Duration.Seconds()), "countdown length in seconds")
	flags.StringVar(&practicePaletteKey, "palette-key", d.PaletteKey, "command palette binding")
	flags.BoolVar(&recordKeys, "record-keys", d.RecordKeys, "record the keystroke timeline")
	flags.BoolVar(&recordAudio, "record-audio", d.RecordAudio, "record microphone audio")
	flags.StringVar(&audioBackend, "audio-backend", d.Audio.Backend, "audio backend (ffmpeg, none)")
	flags.StringVar(&audioFFMPEG, "ffmpeg", d.Audio.Command, "ffmpeg executable")
	flags.StringVar(&audioInputFormat, "input-format", d.Audio.InputFormat, "ffmpeg input format")
	flags.StringVar(&audioInputDevice, "input-device", d.Audio.InputDevice, "ffmpeg input device")
	flags.IntVar(&audioSampleRate, "sample-rate", d.Audio.SampleRate, "capture sample rate (Hz)")
	flags.IntVar(&audioChannels, "channels", d.Audio.Channels, "capture channels")
	flags.StringVar(&logPath, "log-file", d.Log.Path, "diagnostic log file")
	flags.StringVar(&logLevel, "log-level", d.Log.Level, "diagnostic log level")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newMicCmd())

	return rootCmd
}

// resolveConfig layers defaults, the config file, the environment and the
// flags the user actually set, in that order.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	cfg := config.Defaults()

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	fileCfg.Apply(&cfg)

	if err := config.LoadDotEnv(config.DefaultEnvPath(), ".env"); err != nil {
		return model.Config{}, err
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return model.Config{}, err
	}

	applyStringFlag(cmd, "lang", &cfg.Lang, practiceLang)
	applyIntFlag(cmd, "words", &cfg.Words, practiceWords)
	applyFloatFlag(cmd, "caps", &cfg.CapsPct, practiceCaps)
	applyFloatFlag(cmd, "punct", &cfg.PunctPct, practicePunct)
	applyStringFlag(cmd, "punct-set", &cfg.PunctSet, practicePunctSet)
	if cmd.Flags().Changed("seconds") {
		cfg.Duration = time.Duration(practiceSeconds) * time.Second
	}
	applyStringFlag(cmd, "palette-key", &cfg.PaletteKey, practicePaletteKey)
	applyBoolFlag(cmd, "record-keys", &cfg.RecordKeys, recordKeys)
	applyBoolFlag(cmd, "record-audio", &cfg.RecordAudio, recordAudio)
	applyStringFlag(cmd, "audio-backend", &cfg.Audio.Backend, audioBackend)
	applyStringFlag(cmd, "ffmpeg", &cfg.Audio.Command, audioFFMPEG)
	applyStringFlag(cmd, "input-format", &cfg.Audio.InputFormat, audioInputFormat)
	applyStringFlag(cmd, "input-device", &cfg.Audio.InputDevice, audioInputDevice)
	applyIntFlag(cmd, "sample-rate", &cfg.Audio.SampleRate, audioSampleRate)
	applyIntFlag(cmd, "channels", &cfg.Audio.Channels, audioChannels)
	applyStringFlag(cmd, "log-file", &cfg.Log.Path, logPath)
	applyStringFlag(cmd, "log-level", &cfg.Log.Level, logLevel)

	if err := config.Validate(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("typerec needs an interactive terminal")
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer syncLogger(logger)

	wordPath := config.DefaultWordListPath(cfg.Lang)
	words, source, err := wordlist.Resolve(cfg.Lang, wordPath)
	if err != nil {
		return wordListLoadError(cfg.Lang, wordPath, err)
	}
	logger.Infow("word list loaded", "lang", cfg.Lang, "source", source, "words", len(words))

	ctrl := newAudioController(cfg, logger)
	defer func() {
		if cerr := ctrl.Close(); cerr != nil {
			logErrf("failed to release microphone: %v\n", cerr)
		}
	}()

	m := tui.NewModel(cmd.Context(), tui.Deps{
		Config: cfg,
		Words:  words,
		Gen:    generator.New(),
		Audio:  ctrl,
		Player: review.NewSpeaker(),
		Logger: logger,
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newAudioController(cfg model.Config, logger *zap.SugaredLogger) *audio.Controller {
	acquirer, format := audio.NewAcquirer(cfg.Audio)
	return audio.NewController(acquirer, format, cfg.Audio.ChunkSize, logger)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.Template()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List available wordlist languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	langs, err := wordlist.Languages(config.DefaultWordListDir())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read wordlist directory: %w", err)
	}
	hasEnglish := false
	for _, lang := range langs {
		if lang == "en" {
			hasEnglish = true
		}
	}
	if !hasEnglish {
		langs = append([]string{"en (built-in)"}, langs...)
	}
	for _, lang := range langs {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), lang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if len(langs) == 1 && !hasEnglish {
		logErrf("Add more word lists as %s/<lang>.txt\n", config.DefaultWordListDir())
	}
	return nil
}

func applyStringFlag(cmd *cobra.Command, name string, target *string, value string) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

func applyIntFlag(cmd *cobra.Command, name string, target *int, value int) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

func applyFloatFlag(cmd *cobra.Command, name string, target *float64, value float64) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

func applyBoolFlag(cmd *cobra.Command, name string, target *bool, value bool) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

func wordListLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("expected word list at: %s", path),
		fmt.Sprintf("language %q not found", lang),
		"Run: typerec langs",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func syncLogger(logger *zap.SugaredLogger) {
	// Sync on a file-backed core only fails for closed files.
	_ = logger.Sync()
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
