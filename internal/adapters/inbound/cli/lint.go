package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/rubylint/rubylint/internal/adapters/outbound/document"
	"github.com/rubylint/rubylint/internal/adapters/outbound/gitinfo"
	"github.com/rubylint/rubylint/internal/adapters/outbound/scanner"
	"github.com/rubylint/rubylint/internal/adapters/outbound/sink"
	"github.com/rubylint/rubylint/internal/adapters/outbound/tui"
	"github.com/rubylint/rubylint/internal/application"
	"github.com/rubylint/rubylint/internal/domain"
	"github.com/spf13/cobra"
)

type lintReport struct {
	WorkspaceRoot string           `json:"workspace_root"`
	CommitHash    string           `json:"commit_hash,omitempty"`
	Files         []tui.FileReport `json:"files"`
}

func newLintCmd() *cobra.Command {
	var (
		configPath string
		jsonOutput bool
		ciMode     bool
		jobs       int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint Ruby files",
		Long:  "Run every enabled tool over the Ruby files under the given paths and print their diagnostics.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}

			root, err := projectDir(args[0])
			if err != nil {
				return err
			}
			settings, err := loadSettings(root, configPath)
			if err != nil {
				return err
			}

			files, err := collectFiles(args, settings.Locate)
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), verbose)
			store := sink.New()
			failures := &failureLog{}
			if !jsonOutput {
				failures.next = tui.NewNotifier(cmd.ErrOrStderr())
			}
			orch := application.NewOrchestrator(newLintService(logger, nil), store, failures, settings, nil, logger)
			defer orch.Shutdown()

			var (
				docs    []*document.Memory
				reports []tui.FileReport
			)
			for _, f := range files {
				doc, err := document.Load(f)
				if err != nil {
					reports = append(reports, tui.FileReport{Path: f, Error: err.Error()})
					continue
				}
				docs = append(docs, doc)
			}
			logger.Debug("linting files", "count", len(docs), "jobs", jobs)
			lintInBatches(orch, docs, jobs)

			show := displayPath(root)
			failed := len(reports)
			for i := range reports {
				reports[i].Path = show(document.IDFor(reports[i].Path))
			}
			for _, doc := range docs {
				r := tui.FileReport{Path: show(doc.ID())}
				if diags, ok := store.Get(doc.ID()); ok {
					r.Diagnostics = diags
				} else {
					r.Error = failures.reason(doc.Path())
					failed++
				}
				reports = append(reports, r)
			}

			if jsonOutput {
				report := lintReport{WorkspaceRoot: root, Files: reports}
				if gi := gitinfo.New(); gi.IsGitRepo(root) {
					if hash, err := gi.CommitHash(root); err == nil {
						report.CommitHash = hash
					}
				}
				for i := range report.Files {
					if report.Files[i].Diagnostics == nil {
						report.Files[i].Diagnostics = []domain.Diagnostic{}
					}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(reports))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be linted", failed, len(reports))
			}
			if n := store.Count()[domain.SeverityError]; ciMode && n > 0 {
				return fmt.Errorf("found %d error-severity offenses", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Settings file (defaults to .rubylint.yaml in the first path)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output diagnostics as JSON")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 if any error-severity offense is found")
	cmd.Flags().IntVar(&jobs, "jobs", runtime.NumCPU(), "Number of files linted concurrently")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log every tool run to stderr")

	return cmd
}

// collectFiles scans every path and returns the Ruby files found, without
// duplicates, in scan order.
func collectFiles(paths []string, locate domain.LocateSettings) ([]string, error) {
	sc := scanner.New()
	seen := make(map[string]bool)
	var out []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving path: %w", err)
		}
		files, err := sc.Scan(abs, locate)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", p, err)
		}
		for _, f := range files {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out, nil
}
