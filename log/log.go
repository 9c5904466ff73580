package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

var (
	logMu    sync.Mutex
	logger   zerolog.Logger
	diagFile *os.File
	dir      string
	pid      int
)

func init() {
	pid = os.Getpid()
	logger = newLogger(os.Stderr)
}

func newLogger(w io.Writer) zerolog.Logger {
	consoleWriter := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	return zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()
}

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		if !filepath.IsAbs(flagPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, flagPath), nil
		}
		return flagPath, nil
	}

	// Priority 2: KEYTALLY_LOG_PATH environment variable
	envPath := os.Getenv("KEYTALLY_LOG_PATH")
	if envPath != "" {
		if !filepath.IsAbs(envPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, envPath), nil
		}
		return envPath, nil
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

// Init mirrors diagnostics to a file under the configured directory.
// Logging works without it (stderr only).
func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	diagPath := filepath.Join(dir, "keytally_log.txt")
	f, err := os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	diagFile = f
	logger = newLogger(io.MultiWriter(os.Stderr, diagFile))
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	logger = newLogger(os.Stderr)
}

func Info(msg string) {
	logger.Info().Msg(msg)
}

func Infof(format string, args ...any) {
	logger.Info().Msg(fmt.Sprintf(format, args...))
}

func Error(msg string) {
	logger.Error().Msg(msg)
}

func Errorf(format string, args ...any) {
	logger.Error().Msg(fmt.Sprintf(format, args...))
}

func Warn(msg string) {
	logger.Warn().Msg(msg)
}

func Warnf(format string, args ...any) {
	logger.Warn().Msg(fmt.Sprintf(format, args...))
}

func SessionStart(mode string, listeners int) {
	logger.Info().
		Str("mode", mode).
		Int("listeners", listeners).
		Msg("session_start")
}

func CounterIncrement(counter, nextTarget uint32) {
	logger.Info().
		Uint32("counter", counter).
		Uint32("next_target", nextTarget).
		Msg("counter_increment")
}

func BonusTriggered(counter uint32) {
	logger.Info().
		Uint32("counter", counter).
		Msg("bonus_triggered")
}

func BonusFinished() {
	logger.Info().Msg("bonus_finished")
}

func ListenerStart(device string) {
	logger.Info().Str("device", device).Msg("listener_start")
}

func ListenerExit(device string, err error) {
	ev := logger.Error().Str("device", device)
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("listener_exit")
}
