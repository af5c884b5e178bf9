// Package main implements the complianced CLI for running compliance
// checks against checkout payloads, marketing copy, and the state table.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/markitbot/complianced/internal/compliance"
	"github.com/markitbot/complianced/internal/config"
	"github.com/markitbot/complianced/internal/gauntlet"
	"github.com/markitbot/complianced/internal/judge"
	"github.com/markitbot/complianced/internal/jurisdiction"
	"github.com/markitbot/complianced/internal/logging"
)

var (
	// configPath is the optional YAML config file
	configPath string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "complianced",
	Short: "Cannabis retail compliance checks",
	Long: `complianced validates checkout payloads and marketing copy against
state-level cannabis regulations: age floors, purchase limits, legal
status, and prohibited marketing language.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(tableCmd)
}

// checkCmd validates a checkout payload
var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate a checkout payload",
	Long: `Validate a checkout payload (JSON) against the dispensary state's rules.

The payload matches compliance.CheckoutInput:

  {
    "customer": {"uid": "c1", "date_of_birth": "1990-04-02T00:00:00Z",
                 "has_medical_card": false, "state": "CA"},
    "cart": [{"product_id": "p1", "quantity": 2, "category": "flower", "grams": 3.5}],
    "dispensary_state": "CA"
  }

Examples:
  # Check a payload file
  complianced check order.json

  # Check from stdin
  cat order.json | complianced check -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

// scanCmd scans marketing copy for prohibited language
var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Scan marketing copy for compliance concerns",
	Long: `Scan marketing or product copy for prohibited language: unsubstantiated
medical claims, content appealing to minors, and interstate commerce offers.

With the judge enabled in config, the copy also runs through the judge-model
evaluator and the combined verdict is reported.

Examples:
  # Scan a file
  complianced scan promo.txt

  # Scan from stdin
  echo "Cures anxiety, ships nationwide" | complianced scan -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

// tableCmd inspects the jurisdiction table
var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Dump the active jurisdiction table",
	Long: `Print every region in the active jurisdiction table with its legal
status, minimum age, and purchase limits. With jurisdiction.table_path set
in config, validates and dumps that file instead of the embedded table.

Examples:
  complianced table
  complianced --config prod.yaml table`,
	Args: cobra.NoArgs,
	RunE: runTable,
}

// setup loads config, the logger, and the jurisdiction table.
func setup() (*config.Config, *zap.Logger, *jurisdiction.Table, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	var table *jurisdiction.Table
	if cfg.Jurisdiction.TablePath != "" {
		table, err = jurisdiction.LoadFile(cfg.Jurisdiction.TablePath)
	} else {
		table, err = jurisdiction.Load()
	}
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, table, nil
}

// readInput reads from the named file, or stdin for "-" or no argument.
func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
		return content, nil
	}
	content, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", args[0], err)
	}
	return content, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	_, logger, table, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	content, err := readInput(args)
	if err != nil {
		return err
	}

	var input compliance.CheckoutInput
	dec := json.NewDecoder(strings.NewReader(string(content)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		return fmt.Errorf("failed to parse checkout payload: %w", err)
	}

	validator := compliance.NewValidator(table, logger)
	result := validator.Check(cmd.Context(), &input)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if !result.Allowed {
		return fmt.Errorf("checkout denied (%d errors)", len(result.Errors))
	}
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, logger, _, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	content, err := readInput(args)
	if err != nil {
		return err
	}
	text := strings.TrimSpace(string(content))
	if text == "" {
		return fmt.Errorf("no content to scan")
	}

	evaluators := []gauntlet.Evaluator{gauntlet.NewScannerEvaluator()}
	if cfg.Judge.Enabled {
		invoker, err := judge.NewInvoker(judge.Config{
			Provider: cfg.Judge.Provider,
			Model:    cfg.Judge.Model,
			APIKey:   string(cfg.Judge.APIKey),
			BaseURL:  cfg.Judge.BaseURL,
			Timeout:  cfg.Judge.Timeout,
		})
		if err != nil {
			return err
		}
		ev, err := judge.NewComplianceEvaluator(invoker, logger, cfg.Gauntlet.EvaluatorTimeout)
		if err != nil {
			return err
		}
		evaluators = append(evaluators, ev)
	}

	var opts []gauntlet.Option
	if cfg.Gauntlet.Concurrent {
		opts = append(opts, gauntlet.WithConcurrency())
	}
	g, err := gauntlet.New(logger, evaluators, opts...)
	if err != nil {
		return err
	}

	verdict := g.Run(cmd.Context(), text, gauntlet.EvalContext{})

	out, err := json.MarshalIndent(verdict, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if verdict.Fatal {
		return fmt.Errorf("verification failed to complete")
	}
	if !verdict.Passed {
		return fmt.Errorf("content failed compliance review (score %.0f)", verdict.Score)
	}
	return nil
}

func runTable(cmd *cobra.Command, args []string) error {
	_, logger, table, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	codes := table.Codes()
	sort.Strings(codes)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-6s %-14s %-8s %s\n", "STATE", "STATUS", "MIN AGE", "LIMITS")
	for _, code := range codes {
		rule, ok := table.Lookup(code)
		if !ok {
			continue
		}
		cats := make([]string, 0, len(rule.PurchaseLimits))
		for cat := range rule.PurchaseLimits {
			cats = append(cats, string(cat))
		}
		sort.Strings(cats)
		limits := make([]string, 0, len(cats))
		for _, cat := range cats {
			c := jurisdiction.Category(cat)
			limit := rule.PurchaseLimits[c]
			limits = append(limits, fmt.Sprintf("%s %.4g%s", cat, limit, unitFor(c)))
		}
		minAge := "-"
		if rule.LegalStatus != jurisdiction.StatusIllegal {
			minAge = fmt.Sprintf("%d", rule.MinAge())
		}
		fmt.Fprintf(w, "%-6s %-14s %-8s %s\n", code, rule.LegalStatus, minAge, strings.Join(limits, ", "))
	}
	fmt.Fprintf(w, "\n%d regions\n", len(codes))
	return nil
}

// unitFor names a category's measurement unit for display.
func unitFor(c jurisdiction.Category) string {
	if c == jurisdiction.CategoryEdible {
		return "mg"
	}
	return "g"
}
