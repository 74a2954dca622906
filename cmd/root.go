package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-timesheet/internal/config"
	"github.com/Tiliavir/trivial-timesheet/internal/logging"
)

// app holds what every command needs once the config is loaded.
var app = struct {
	home   string
	cfg    config.Config
	logger *log.Logger
	now    func() time.Time
}{
	logger: logging.Discard(),
	now:    time.Now,
}

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "tts",
	Short: "Trivial Timesheet – record clock-in/clock-out entries from the shell",
	Long: `tts records labeled work intervals typed as 12-hour clock times
("9:05 AM", "5:30 PM") and keeps them as human-readable JSON day files in ~/.tts/.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadApp,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(outlookCmd)
	rootCmd.AddCommand(watchCmd)
}

func loadApp(cmd *cobra.Command, args []string) error {
	home, err := config.Home()
	if err != nil {
		return storageError(err)
	}
	cfg, err := config.Load(home)

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	app.home = home
	app.cfg = cfg
	app.logger = logging.New(logging.Options{Writer: cmd.ErrOrStderr(), Level: level})

	if err != nil {
		app.logger.Warn("using default configuration", "err", err)
	}
	app.logger.Debug("loaded configuration", "home", home, "storage", cfg.Storage.Dir)
	return nil
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitError carries the process exit code for an error: 1 for input the
// user can fix, 2 for storage or network failures.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func storageError(err error) error {
	return &exitError{code: 2, err: err}
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}
