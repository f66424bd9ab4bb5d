package cli

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/rileyhilliard/rtop/internal/config"
	"github.com/rileyhilliard/rtop/internal/dashboard"
	"github.com/rileyhilliard/rtop/internal/errors"
	"github.com/rileyhilliard/rtop/internal/logger"
	"github.com/rileyhilliard/rtop/internal/monitor"
	"github.com/rileyhilliard/rtop/internal/probe"
)

// loadConfig finds and loads the config file, applies flag overrides and
// validates the result.
func loadConfig(flags SourceFlags) (*config.Config, error) {
	cfg, _, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := flags.Apply(cfg); err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// monitorCommand starts the TUI dashboard.
func monitorCommand(flags SourceFlags) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"The dashboard needs an interactive terminal",
			"Use 'rtop snapshot <fibers|pool|actors>' for scripted output.")
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	restore, err := logger.RedirectTo(logFile)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot open log file: "+logFile,
			"Check the directory exists and is writable")
	}
	defer restore()
	log := logger.NewEnvLogger("rtop")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feeds, err := startPollers(ctx, cfg, log)
	if err != nil {
		return err
	}

	engine := dashboard.New(cfg.EngineOptions())
	model := monitor.NewModel(engine, monitor.Options{
		Feeds:  feeds,
		Cancel: cancel,
		Logger: log,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()

	// Stop pollers before the deferred restore so nothing logs to stderr
	// after the alt screen closes.
	cancel()

	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Dashboard failed",
			"Check that the terminal supports the alternate screen")
	}
	if m, ok := final.(monitor.Model); ok {
		if reason, ok := m.ExitReason(); ok {
			return stoppedError(m.ExitError(), reason)
		}
	}
	return nil
}

// stoppedError reports why the dashboard quit under the code of the error
// that stopped it.
func stoppedError(cause error, reason string) error {
	code := errors.CodeOf(cause)
	if code == "" {
		code = errors.ErrWiring
	}
	return errors.New(code,
		"Dashboard stopped: "+reason,
		"Run with --log-file to capture poller logs")
}

// startPollers creates one poller per configured source and starts it. If a
// poller cannot be created the ones already started are stopped through ctx
// by the caller.
func startPollers(ctx context.Context, cfg *config.Config, log logger.Logger) ([]monitor.Feed, error) {
	opts := probe.Options{
		Interval: cfg.Interval,
		Timeout:  cfg.Timeout,
		Logger:   log,
	}

	var feeds []monitor.Feed
	for _, kind := range cfg.ConfiguredKinds() {
		endpoint := cfg.Source(kind).Endpoint
		p, err := probe.NewPoller(kind, endpoint, opts)
		if err != nil {
			return nil, err
		}
		log.Info("polling %s from %s every %s", kind, endpoint, cfg.Interval)
		feeds = append(feeds, monitor.Feed{
			Kind:     kind,
			Endpoint: endpoint,
			Updates:  p.Run(ctx),
		})
	}
	return feeds, nil
}
