package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tcnlab/railvos/internal/cyclic"
	"github.com/tcnlab/railvos/internal/metrics"
	"github.com/tcnlab/railvos/internal/thread"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	ConfigPath  string
	MetricsAddr string
}

// NewRunCommand creates the run command, which spawns one managed
// thread per configured task, each wrapping a cyclic scheduler, and
// keeps them running until interrupted.
func NewRunCommand(root *RootOptions) *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run cyclic tasks from a task definition file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadRunConfig(opts.ConfigPath)
			if err != nil {
				return err
			}

			log := root.Logger()
			col := metrics.NewCollector()
			mgr := thread.NewManager(log, col)
			defer mgr.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			for _, task := range cfg.Tasks {
				policy, err := ParsePolicy(task.Policy)
				if err != nil {
					return err
				}

				sched, err := cyclic.New(task.Interval.Std(), heartbeat(log, task.Name), nil,
					cyclic.WithLogger(log), cyclic.WithCollector(col))
				if err != nil {
					return err
				}

				_, err = mgr.Create(task.Name,
					thread.Config{Policy: policy, Priority: task.Priority},
					func(ctx context.Context, arg any) { sched.Run(ctx) }, nil)
				if err != nil {
					return err
				}
				log.Info("task started", "task", task.Name, "interval", task.Interval.Std())
			}

			addr := opts.MetricsAddr
			if addr == "" {
				addr = cfg.MetricsListen
			}
			var srv *http.Server
			if addr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", col.Handler())
				srv = &http.Server{Addr: addr, Handler: mux}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error("metrics listener failed", "err", err)
					}
				}()
				log.Info("metrics listening", "addr", addr)
			}

			<-ctx.Done()
			log.Info("shutting down")

			if srv != nil {
				sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = srv.Shutdown(sctx)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "tasks.yaml", "task definition file")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics", "", "serve prometheus metrics on this address (overrides config)")

	return cmd
}

// heartbeat is the demo task body: a debug-level tick.
func heartbeat(log *slog.Logger, name string) cyclic.Func {
	return func(ctx context.Context, arg any) {
		log.Debug("tick", "task", name)
	}
}
