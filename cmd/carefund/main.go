package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/elderplan/carefund/internal/calculation"
	"github.com/elderplan/carefund/internal/config"
	"github.com/elderplan/carefund/internal/output"
	"github.com/elderplan/carefund/internal/rules"
	"github.com/elderplan/carefund/internal/server"
	"github.com/spf13/cobra"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "carefund",
	Short: "Care funding eligibility and projection calculator",
	Long:  "Computes CHC likelihood, local-authority means-test contributions, deferred-payment eligibility, and multi-year funding projections",
}

var assessCmd = &cobra.Command{
	Use:   "assess [input-file]",
	Short: "Run a full funding assessment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rulesFile, _ := cmd.Flags().GetString("rules")
		format, _ := cmd.Flags().GetString("format")
		verbose, _ := cmd.Flags().GetBool("verbose")

		provider := rules.NewProvider()
		active, err := provider.LoadFromFile(rulesFile)
		if err != nil {
			return fmt.Errorf("failed to load rules: %w", err)
		}

		parser := config.NewInputParser()
		req, err := parser.LoadFromFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to load assessment input: %w", err)
		}

		engine := calculation.NewEngine()
		if verbose {
			engine.SetLogger(simpleCLILogger{})
		}

		result, err := engine.Assess(req, active)
		if err != nil {
			return err
		}

		return output.GenerateReport(result, format)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the assessment API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		rulesFile, _ := cmd.Flags().GetString("rules")
		addr, _ := cmd.Flags().GetString("addr")

		provider := rules.NewProvider()
		active, err := provider.LoadFromFile(rulesFile)
		if err != nil {
			return fmt.Errorf("failed to load rules: %w", err)
		}

		logger := simpleCLILogger{}
		engine := calculation.NewEngine()
		engine.SetLogger(logger)

		srv := server.New(engine, provider, logger)
		log.Printf("carefund serving on %s (rules %s)", addr, active.Version())
		return srv.ListenAndServe(addr)
	},
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "carefund %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(os.Stdout, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

func main() {
	assessCmd.Flags().String("rules", "config/rules-2025-26.yaml", "versioned rules configuration file")
	assessCmd.Flags().String("format", "console", "output format (console, json)")
	assessCmd.Flags().Bool("verbose", false, "enable engine logging")

	serveCmd.Flags().String("rules", "config/rules-2025-26.yaml", "versioned rules configuration file")
	serveCmd.Flags().String("addr", ":8080", "listen address")

	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
