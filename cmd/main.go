// Package main provides the CLI entry point for the customer generator.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/example/custgen/internal/constraint"
	"github.com/example/custgen/internal/logger"
	"github.com/example/custgen/internal/render"
	"github.com/example/custgen/internal/report"
	"github.com/example/custgen/internal/runner"
	"github.com/example/custgen/internal/schema"
)

// Version information (populated at build time)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// Exit codes: configuration failures and schema violations are
// distinguishable so callers can branch on which guarantee was violated.
const (
	exitGeneric         = 1
	exitConfigError     = 2
	exitSchemaViolation = 3
)

// CLI flags
var (
	schemaPath      string
	constraintsPath string
	count           int
	seed            uint64
	outPath         string
	nricConfigPath  string
	passConfigPath  string
	templatesRoot   string
	docOutDir       string
	reportPath      string
	validateOnly    bool
	dryRun          bool
	verbose         bool
	showVersion     bool
)

func init() {
	flag.StringVar(&schemaPath, "schema", "", "Path to the customer JSON Schema (Draft 2020-12)")
	flag.StringVar(&schemaPath, "s", "", "Path to the customer JSON Schema (shorthand)")
	flag.StringVar(&constraintsPath, "constraints", "", "Path to the constraints document (YAML or JSON)")
	flag.StringVar(&constraintsPath, "c", "", "Path to the constraints document (shorthand)")
	flag.IntVar(&count, "count", 10, "Number of records to generate")
	flag.IntVar(&count, "n", 10, "Number of records to generate (shorthand)")
	flag.Uint64Var(&seed, "seed", 0, "Random seed (0 derives one from the clock; the chosen seed is logged)")
	flag.StringVar(&outPath, "out", "customers.jsonl", "Output JSON Lines file")
	flag.StringVar(&outPath, "o", "customers.jsonl", "Output JSON Lines file (shorthand)")

	flag.StringVar(&nricConfigPath, "nric-config", "", "Path to the NRIC field-declaration config (enables NRIC rendering)")
	flag.StringVar(&passConfigPath, "passport-config", "", "Path to the passport field-declaration config (enables passport rendering)")
	flag.StringVar(&templatesRoot, "templates-root", "templates", "Root folder for document HTML templates")
	flag.StringVar(&docOutDir, "doc-out", "docs_out", "Output folder for rendered documents")
	flag.StringVar(&reportPath, "report", "", "Write an HTML generation report to this path")

	flag.BoolVar(&validateOnly, "validate", false, "Validate constraints and schema, then exit")
	flag.BoolVar(&dryRun, "dry-run", false, "Resolve constraints and show the generation plan without running")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose output")
	flag.BoolVar(&verbose, "v", false, "Enable verbose output (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = printUsage
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `custgen - Synthetic Customer Generator

USAGE:
    custgen -schema <path> [options]

DESCRIPTION:
    Generates schema-valid synthetic customer records as JSON Lines, honoring
    user-supplied statistical constraints (age bounds, employment-type
    distribution, income ranges). Optionally renders identity-document HTML
    artifacts (NRIC, passport) for each customer.

    Every generated record is validated against the supplied JSON Schema;
    the first violation aborts the batch.

CONFIGURATION:
    -schema, -s <path>       Customer JSON Schema (Draft 2020-12), required
    -constraints, -c <path>  Constraints document (YAML or JSON), optional

GENERATION OPTIONS:
    -count, -n <n>           Number of records (default 10)
    -seed <n>                Random seed; identical seed + constraints give
                             byte-identical output (0 picks one and logs it)
    -out, -o <path>          Output JSON Lines file (default customers.jsonl)

DOCUMENT RENDERING:
    -nric-config <path>      NRIC field-declaration config
    -passport-config <path>  Passport field-declaration config
    -templates-root <path>   Folder holding the HTML templates (default templates)
    -doc-out <path>          Folder for rendered documents (default docs_out)

REPORTING:
    -report <path>           Write an HTML generation summary

UTILITY OPTIONS:
    -validate                Validate constraints and schema, then exit
    -dry-run                 Show the generation plan without running
    -verbose, -v             Enable verbose output
    -version                 Show version information

EXAMPLES:
    # Generate 100 customers with the default constraints
    custgen -schema schemas/customer.schema.json -count 100

    # Reproducible run with custom constraints
    custgen -schema schemas/customer.schema.json -c configs/constraints.example.yaml -seed 42

    # Generate and render NRIC cards
    custgen -schema schemas/customer.schema.json -nric-config configs/nric_fields.json

EXIT CODES:
    0  success
    1  generic failure
    2  configuration error (invalid constraints or schema document)
    3  schema violation (a generated record failed validation)
`)
}

func main() {
	flag.Parse()

	if showVersion {
		printVersion()
		os.Exit(0)
	}

	logCfg := logger.DefaultConfig()
	if verbose {
		logCfg.Level = "debug"
	}
	log := logger.New(logCfg)
	defer log.Sync()

	if schemaPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -schema flag is required")
		fmt.Fprintln(os.Stderr, "")
		printUsage()
		os.Exit(exitConfigError)
	}

	if err := run(log); err != nil {
		log.Error("run failed", zap.Error(err))
		os.Exit(exitCode(err))
	}
}

func run(log *zap.Logger) error {
	var overrides *constraint.Overrides
	if constraintsPath != "" {
		loaded, err := constraint.LoadFile(constraintsPath)
		if err != nil {
			return err
		}
		overrides = loaded
	}

	constraints, err := constraint.Resolve(overrides)
	if err != nil {
		return err
	}

	gate, err := schema.CompileFile(schemaPath)
	if err != nil {
		return err
	}

	if validateOnly {
		fmt.Printf("Constraints and schema are valid.\n")
		printPlan(constraints)
		return nil
	}
	if dryRun {
		printPlan(constraints)
		fmt.Println("Ready to generate. Remove -dry-run to run.")
		return nil
	}

	runSeed := seed
	if runSeed == 0 {
		runSeed = uint64(time.Now().UnixNano())
	}
	log.Info("generating",
		zap.Int("count", count),
		zap.Uint64("seed", runSeed),
		zap.String("out", outPath),
	)

	hooks, err := renderHooks(log)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	result, err := runner.Run(runner.Config{
		Count:       count,
		Seed:        runSeed,
		Constraints: constraints,
		Gate:        gate,
		Hooks:       hooks,
		Logger:      log,
	}, out)
	if err != nil {
		return err
	}

	if err := report.WriteConsole(os.Stdout, result.Stats, constraints); err != nil {
		return err
	}
	if reportPath != "" {
		if err := report.NewHTMLReporter().WriteHTMLToFile(result.Stats, constraints, reportPath); err != nil {
			return err
		}
		log.Info("wrote HTML report", zap.String("path", reportPath))
	}

	fmt.Printf("\nWrote %d customers to %s\n", result.Records, outPath)
	return nil
}

// renderHooks builds per-record rendering hooks for the configured document
// types. Render failures are logged by the runner and never abort the batch.
func renderHooks(log *zap.Logger) ([]runner.RecordHook, error) {
	var hooks []runner.RecordHook

	add := func(kind render.Kind, configPath string) error {
		cfg, err := render.LoadConfig(configPath)
		if err != nil {
			return err
		}
		r := render.New(kind, cfg, templatesRoot, docOutDir)
		hooks = append(hooks, func(index int, line []byte) error {
			var customer map[string]any
			if err := json.Unmarshal(line, &customer); err != nil {
				return err
			}
			path, err := r.Render(customer)
			if err != nil {
				return err
			}
			if path != "" {
				log.Debug("rendered document",
					zap.String("kind", string(kind)),
					zap.String("path", path),
				)
			}
			return nil
		})
		return nil
	}

	if nricConfigPath != "" {
		if err := add(render.KindNRIC, nricConfigPath); err != nil {
			return nil, err
		}
	}
	if passConfigPath != "" {
		if err := add(render.KindPassport, passConfigPath); err != nil {
			return nil, err
		}
	}
	return hooks, nil
}

// printPlan prints the resolved constraint set.
func printPlan(cs constraint.Set) {
	fmt.Println()
	fmt.Println("Resolved constraints:")
	fmt.Printf("  Country:     %s\n", cs.Country)
	fmt.Printf("  Currency:    %s\n", cs.Currency)
	fmt.Printf("  Nationality: %s\n", cs.Nationality)
	fmt.Printf("  Age range:   %d-%d\n", cs.MinAge, cs.MaxAge)

	totalWeight := 0.0
	for _, w := range cs.EmploymentDistribution {
		totalWeight += w
	}
	fmt.Println("  Employment distribution:")
	for _, category := range cs.Categories() {
		rng := cs.MonthlyIncomeRanges[category]
		fmt.Printf("    %-15s %5.1f%%  income %g-%g\n",
			category,
			cs.EmploymentDistribution[category]/totalWeight*100,
			rng.Low, rng.High,
		)
	}
}

// exitCode maps error classes to process exit codes.
func exitCode(err error) int {
	switch {
	case errors.Is(err, constraint.ErrInvalidConstraints),
		errors.Is(err, constraint.ErrConstraintsNotFound),
		errors.Is(err, schema.ErrInvalidSchema),
		errors.Is(err, render.ErrInvalidDocConfig):
		return exitConfigError
	case errors.Is(err, schema.ErrSchemaViolation):
		return exitSchemaViolation
	default:
		return exitGeneric
	}
}

func printVersion() {
	fmt.Printf("custgen version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}
