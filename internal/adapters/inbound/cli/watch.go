package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/rubylint/rubylint/internal/adapters/outbound/config"
	"github.com/rubylint/rubylint/internal/adapters/outbound/document"
	"github.com/rubylint/rubylint/internal/adapters/outbound/metrics"
	"github.com/rubylint/rubylint/internal/adapters/outbound/scanner"
	"github.com/rubylint/rubylint/internal/adapters/outbound/sink"
	"github.com/rubylint/rubylint/internal/adapters/outbound/tui"
	"github.com/rubylint/rubylint/internal/adapters/outbound/watcher"
	"github.com/rubylint/rubylint/internal/application"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var (
		configPath  string
		metricsAddr string
		jobs        int
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Lint Ruby files as they change",
		Long:  "Lint every Ruby file under path, then relint files when they are saved and every file when .rubylint.yaml changes.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			root, err := projectDir(path)
			if err != nil {
				return err
			}

			settingsFile := configPath
			if settingsFile == "" {
				settingsFile = filepath.Join(root, config.FileName)
			}
			if settingsFile, err = filepath.Abs(settingsFile); err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			settings, err := loadSettings(root, configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := newLogger(cmd.ErrOrStderr(), verbose)
			recorder := metrics.New()
			stream := tui.NewStreamSink(cmd.OutOrStdout(), sink.New(), displayPath(root))
			orch := application.NewOrchestrator(
				newLintService(logger, recorder),
				stream,
				tui.NewNotifier(cmd.ErrOrStderr()),
				settings,
				nil,
				logger,
			)
			defer orch.Shutdown()

			if metricsAddr != "" {
				srv := &http.Server{Addr: metricsAddr, Handler: metricsMux(recorder), ReadHeaderTimeout: 5 * time.Second}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("metrics server stopped", "addr", metricsAddr, "error", err)
					}
				}()
				defer srv.Close()
				logger.Info("serving metrics", "addr", metricsAddr)
			}

			w, err := watcher.New(root, settingsFile, logger)
			if err != nil {
				return fmt.Errorf("watching %s: %w", root, err)
			}
			defer w.Close()

			locate := settings.Locate
			files, err := collectFiles([]string{root}, locate)
			if err != nil {
				return err
			}
			docs := make(map[string]*document.Memory, len(files))
			var initial []*document.Memory
			for _, f := range files {
				doc, err := document.Load(f)
				if err != nil {
					logger.Warn("reading file", "path", f, "error", err)
					continue
				}
				docs[f] = doc
				initial = append(initial, doc)
			}
			lintInBatches(orch, initial, jobs)

			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl+C to stop)\n", root)

			err = w.Run(ctx, func(ev watcher.Event) {
				logger.Debug("file event", "path", ev.Path, "kind", ev.Kind)
				switch ev.Kind {
				case watcher.Saved:
					if !scanner.Matches(root, locate, ev.Path) {
						return
					}
					doc, readErr := reload(docs[ev.Path], ev.Path)
					if readErr != nil {
						logger.Warn("reading file", "path", ev.Path, "error", readErr)
						return
					}
					docs[ev.Path] = doc
					orch.DocumentSaved(doc)
				case watcher.Removed:
					delete(docs, ev.Path)
					orch.DocumentClosed(document.IDFor(ev.Path))
				case watcher.SettingsChanged:
					next, loadErr := loadSettings(root, configPath)
					if loadErr != nil {
						logger.Warn("keeping previous settings", "error", loadErr)
						return
					}
					locate = next.Locate
					orch.ConfigurationChanged(next)
				}
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Settings file (defaults to .rubylint.yaml in path)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().IntVar(&jobs, "jobs", runtime.NumCPU(), "Number of files linted concurrently during the initial pass")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log every tool run and file event to stderr")

	return cmd
}

// reload refreshes a known document from disk or loads a new one.
func reload(doc *document.Memory, path string) (*document.Memory, error) {
	if doc == nil {
		return document.Load(path)
	}
	return doc, doc.Reload()
}

func metricsMux(recorder *metrics.Recorder) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	return mux
}
