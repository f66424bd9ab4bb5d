package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/rileyhilliard/rtop/internal/config"
	"github.com/rileyhilliard/rtop/internal/dashboard"
	"github.com/rileyhilliard/rtop/internal/errors"
	"github.com/rileyhilliard/rtop/internal/probe"
	"github.com/rileyhilliard/rtop/internal/ui"
	"github.com/rileyhilliard/rtop/pkg/sshutil"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Sources        SourceFlags // Pre-specified endpoints and polling settings
	Dir            string      // Directory to write .rtop.yaml to, default cwd
	Overwrite      bool        // Overwrite existing config without asking
	NonInteractive bool        // Skip prompts, use flag values
}

// nonInteractiveEnv reports whether the environment asks for no prompts.
func nonInteractiveEnv() bool {
	if v := os.Getenv("RTOP_NON_INTERACTIVE"); v == "1" || strings.EqualFold(v, "true") {
		return true
	}
	return os.Getenv("CI") != ""
}

// Init creates a new .rtop.yaml configuration file.
func Init(opts InitOptions) error {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	configPath := filepath.Join(dir, config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	sources := opts.Sources
	if !opts.NonInteractive {
		if err := promptSources(&sources); err != nil {
			return err
		}
	}

	cfg, err := buildInitConfig(sources)
	if err != nil {
		return err
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Printf("%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Println("Next steps:")
	fmt.Println("  rtop snapshot <source>  - Check an endpoint answers")
	fmt.Println("  rtop                    - Open the dashboard")

	return nil
}

// buildInitConfig turns the collected answers into a validated config.
func buildInitConfig(sources SourceFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if err := sources.Apply(cfg); err != nil {
		return nil, err
	}
	if len(cfg.ConfiguredKinds()) == 0 {
		return nil, errors.New(errors.ErrConfig,
			"At least one source endpoint is required",
			"Provide --fibers, --pool or --actors, or run interactively")
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// promptSources asks for the title and the endpoint of every source.
func promptSources(sources *SourceFlags) error {
	suggestions := endpointSuggestions()

	endpointInput := func(kind dashboard.TabKind, value *string, placeholder string) *huh.Input {
		return huh.NewInput().
			Title(fmt.Sprintf("%s endpoint (optional)", kind.DefaultTitle())).
			Description("http(s)://, file://, ssh://host/command or mqtt://broker/topic").
			Placeholder(placeholder).
			Suggestions(suggestions).
			Value(value).
			Validate(validateOptionalEndpoint)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Dashboard title").
				Placeholder("rtop").
				Value(&sources.Title),
		),
		huh.NewGroup(
			endpointInput(dashboard.KindFibers, &sources.Fibers, "http://127.0.0.1:6789/fibers"),
			endpointInput(dashboard.KindPool, &sources.Pool, "file://./pool.json"),
			endpointInput(dashboard.KindActors, &sources.Actors, "mqtt://broker:1883/app/actors"),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Poll interval").
				Placeholder(config.DefaultInterval.String()).
				Value(&sources.Interval).
				Validate(func(s string) error {
					_, err := ParseDuration("interval", s)
					return err
				}),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive flag")
	}
	return nil
}

// validateOptionalEndpoint accepts an empty value or a parseable endpoint.
func validateOptionalEndpoint(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := probe.ParseEndpoint(s); err != nil {
		return fmt.Errorf("%s", errors.Summary(err))
	}
	return nil
}

// endpointSuggestions offers an ssh:// prefix for every host in ~/.ssh/config.
func endpointSuggestions() []string {
	hosts, err := sshutil.ListHosts()
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		out = append(out, "ssh://"+h.Alias+"/")
	}
	return out
}
