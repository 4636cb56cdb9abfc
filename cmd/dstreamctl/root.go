package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sugawarayuuta/sonnet"

	"github.com/joshuapare/dstreamkit/internal/logger"
)

var (
	// Global flags
	verbose  bool
	quiet    bool
	jsonOut  bool
	logLevel string
	logDir   string
)

var rootCmd = &cobra.Command{
	Use:   "dstreamctl",
	Short: "Evaluate and inspect dstream site assignment algorithms",
	Long: `dstreamctl evaluates the dstream site assignment algorithms, which decide
where the T'th item of a stream is stored in a fixed buffer of S sites.
It answers the line protocol used by cross-implementation tests, reports
which arrivals each site holds, and draws deposition-depth heatmaps.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initLogging(); err != nil {
			return err
		}
		logger.Info("command started", "command", cmd.CommandPath(), "args", args)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "", "Log at this level (debug, info, warn, error)")
	rootCmd.PersistentFlags().
		StringVar(&logDir, "log-dir", "", "Write logs to a dated file in this directory instead of stderr")
}

func execute() {
	err := rootCmd.Execute()
	if err != nil {
		logger.Error("command failed", "err", err)
	}
	if cerr := logger.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close log: %w", cerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initLogging enables the structured logger when --log-level, --log-dir or
// --verbose is given. Logs go to stderr unless --log-dir names a directory,
// so stdout stays machine readable. Files older than a week are pruned.
func initLogging() error {
	if logLevel == "" && logDir == "" && !verbose {
		return logger.Init(logger.Options{})
	}
	level := logger.ParseLevel(logLevel)
	if logLevel == "" && verbose {
		level = logger.ParseLevel("debug")
	}
	opts := logger.Options{
		Enabled: true,
		Level:   level,
		JSON:    jsonOut,
		LogDir:  logDir,
	}
	if logDir == "" {
		opts.Writer = os.Stderr
	}
	return logger.Init(opts)
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	data, err := sonnet.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = os.Stdout.Write(data)
	return err
}
