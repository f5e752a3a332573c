package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ritzau/circuit-workbench/pkg/circuitfile"
	"github.com/ritzau/circuit-workbench/pkg/config"
	"github.com/ritzau/circuit-workbench/pkg/logging"
	"github.com/ritzau/circuit-workbench/pkg/output"
	"github.com/ritzau/circuit-workbench/pkg/session"
	"github.com/ritzau/circuit-workbench/pkg/watcher"
	"github.com/ritzau/circuit-workbench/pkg/web"
)

func main() {
	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logging.SetLevel(logLevel(cfg))

	sessions := session.NewManager()

	if cfg.Circuit != "" {
		circuit, err := circuitfile.Load(cfg.Circuit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: loading %s: %v\n", cfg.Circuit, err)
			os.Exit(1)
		}
		sessions.Default().Replace(circuit)
		logging.Info("circuit loaded", "path", cfg.Circuit, "components", circuit.Len())
	}

	if cfg.WebMode {
		runWebServer(cfg, sessions)
		return
	}

	// CLI mode: analyze once and print the report.
	sess := sessions.Default()
	result := sess.Analyze()
	components, connections := sess.Snapshot()
	output.PrintReport(os.Stdout, components, connections, result)
}

// logLevel maps --verbosity / -v flags onto a slog level. An explicit
// verbosity name wins over the repeat count.
func logLevel(cfg *config.Config) slog.Level {
	switch cfg.Verbosity {
	case "trace", "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	switch {
	case cfg.VerboseCnt >= 2:
		return slog.LevelDebug
	case cfg.VerboseCnt == 1:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

func runWebServer(cfg *config.Config, sessions *session.Manager) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := web.NewServer(sessions)
	server.SetCircuitFile(cfg.Circuit)

	if cfg.Watch && cfg.Circuit != "" {
		if err := startWatcher(ctx, cfg.Circuit, server); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	url := fmt.Sprintf("http://localhost:%d", cfg.Port)
	fmt.Printf("Starting circuit workbench on %s\n", url)

	errs := make(chan error, 1)
	go func() {
		errs <- server.Start(cfg.Port)
	}()

	if cfg.OpenBrowser {
		// Give the listener a moment before pointing a browser at it.
		time.Sleep(500 * time.Millisecond)
		openBrowser(url)
	}

	select {
	case <-ctx.Done():
		fmt.Println("\nShutting down")
	case err := <-errs:
		fmt.Fprintf(os.Stderr, "Error: server failed: %v\n", err)
		os.Exit(1)
	}
}

// startWatcher reloads the default session's circuit whenever the file
// changes on disk, and pushes a live update to connected clients.
func startWatcher(ctx context.Context, path string, server *web.Server) error {
	fw, err := watcher.New(path)
	if err != nil {
		return err
	}
	fw.Start(ctx)

	debouncer := watcher.NewDebouncer(fw.Events(), 250*time.Millisecond, 2*time.Second)
	debouncer.Start(ctx)

	go func() {
		defer fw.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-debouncer.Events():
				if !ok {
					return
				}
				circuit, err := circuitfile.Load(event.Path)
				if err != nil {
					logging.Warn("reloading circuit failed", "path", event.Path, "error", err)
					continue
				}
				sess := server.Sessions().Default()
				sess.Replace(circuit)
				server.PublishCircuit(sess, "file_reloaded")
				logging.Info("circuit reloaded", "path", event.Path, "components", circuit.Len())
			}
		}
	}()

	return nil
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "linux":
		cmd = "xdg-open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		logging.Warn("cannot open browser", "platform", runtime.GOOS)
		return
	}

	if err := exec.Command(cmd, args...).Start(); err != nil {
		logging.Warn("opening browser failed", "error", err)
	}
}
