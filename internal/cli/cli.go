// Package cli provides the command-line interface with injectable io.Writer for testing.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mcdonaldj/zipkit/internal/config"
	"github.com/mcdonaldj/zipkit/internal/tui"
	"github.com/mcdonaldj/zipkit/zipper"
)

// ConfigService provides configuration operations for the CLI.
type ConfigService interface {
	Load() (*config.Config, error)
	Save(cfg *config.Config) error
	ConfigPath() string
	DefaultConfig() *config.Config
}

// UIRunner runs the interactive archive browser on an open session.
type UIRunner func(z *zipper.Zip, extractDir string) error

// CLI represents the command-line interface with injectable dependencies.
type CLI struct {
	Out     io.Writer // Standard output
	Err     io.Writer // Standard error
	Version string    // Application version
	Args    []string  // Command arguments (like os.Args)

	// Exit function for testability (defaults to os.Exit)
	Exit func(code int)

	// Injectable dependencies (nil means use defaults)
	ConfigSvc  ConfigService
	RunUI      UIRunner
	ZipOptions []zipper.Option

	// Color functions (can be disabled for testing)
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	cyan   func(a ...interface{}) string
	gray   func(a ...interface{}) string
	red    func(a ...interface{}) string

	flags sessionFlags
}

// sessionFlags are the persistent flags; empty values fall back to the config.
type sessionFlags struct {
	skip        string
	mask        string
	password    string
	path        string
	compression string
	verbose     bool
}

// New creates a new CLI with default settings.
func New(version string) *CLI {
	return &CLI{
		Out:     os.Stdout,
		Err:     os.Stderr,
		Version: version,
		Args:    os.Args,
		Exit:    os.Exit,
		green:   color.New(color.FgGreen, color.Bold).SprintFunc(),
		yellow:  color.New(color.FgYellow).SprintFunc(),
		cyan:    color.New(color.FgCyan).SprintFunc(),
		gray:    color.New(color.FgHiBlack).SprintFunc(),
		red:     color.New(color.FgRed).SprintFunc(),
	}
}

// NewForTesting creates a CLI configured for testing (no colors, captured output).
func NewForTesting(out, errOut io.Writer, args []string) *CLI {
	noColor := func(a ...interface{}) string { return fmt.Sprint(a...) }
	return &CLI{
		Out:     out,
		Err:     errOut,
		Version: "test",
		Args:    args,
		Exit:    func(code int) {},
		green:   noColor,
		yellow:  noColor,
		cyan:    noColor,
		gray:    noColor,
		red:     noColor,
	}
}

// defaultConfigService wraps the config package functions.
type defaultConfigService struct{}

func (d *defaultConfigService) Load() (*config.Config, error) { return config.Load() }
func (d *defaultConfigService) Save(cfg *config.Config) error { return cfg.Save() }
func (d *defaultConfigService) ConfigPath() string            { return config.ConfigPath() }
func (d *defaultConfigService) DefaultConfig() *config.Config { return config.DefaultConfig() }

func (c *CLI) configSvc() ConfigService {
	if c.ConfigSvc != nil {
		return c.ConfigSvc
	}
	return &defaultConfigService{}
}

func (c *CLI) runUI() UIRunner {
	if c.RunUI != nil {
		return c.RunUI
	}
	return tui.Run
}

// Run executes the CLI with the configured arguments.
func (c *CLI) Run() {
	root := c.rootCommand()
	args := []string{}
	if len(c.Args) > 1 {
		args = c.Args[1:]
	}
	root.SetArgs(args)
	root.SetOut(c.Out)
	root.SetErr(c.Err)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(c.Err, "%s %v\n", c.red("Error:"), err)
		c.Exit(1)
	}
}

func (c *CLI) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "zipkit",
		Short:         "Create, inspect, and extract ZIP archives",
		Long:          "zipkit - ZIP archive tool\n\nDefaults are read from ~/.zipkit/config.yaml; flags override them.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.skip, "skip", "", "skip mode: NONE, HIDDEN, COMODOJO or ALL")
	pf.StringVar(&c.flags.mask, "mask", "", "octal permission mask for created destination folders")
	pf.StringVar(&c.flags.password, "password", "", "password for encrypted entries")
	pf.StringVar(&c.flags.path, "path", "", "base path prepended to files being added")
	pf.StringVar(&c.flags.compression, "compression", "", "compression for added files: STORE, DEFLATE or ZSTD")
	pf.BoolVarP(&c.flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.createCommand(),
		c.addCommand(),
		c.listCommand(),
		c.deleteCommand(),
		c.extractCommand(),
		c.checkCommand(),
		c.uiCommand(),
		c.initCommand(),
		c.versionCommand(),
	)
	return root
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// loadConfig loads the config and returns the logger built from it.
func (c *CLI) loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := c.configSvc().Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	level := slog.LevelWarn
	if l, err := config.ParseLogLevel(cfg.LogLevel); err == nil {
		level = l
	}
	if c.flags.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(c.Err, &slog.HandlerOptions{Level: level}))
	return cfg, logger, nil
}

func (c *CLI) zipOptions(logger *slog.Logger) []zipper.Option {
	opts := []zipper.Option{zipper.WithLogger(logger)}
	return append(opts, c.ZipOptions...)
}

// configure applies config values and flag overrides to a session.
func (c *CLI) configure(z *zipper.Zip, cfg *config.Config) error {
	if _, err := z.SetSkipped(first(c.flags.skip, cfg.SkipMode, string(zipper.SkipNone))); err != nil {
		return err
	}

	if m := first(c.flags.mask, cfg.Mask); m != "" {
		mask, err := zipper.ParseMask(m)
		if err != nil {
			return err
		}
		z.SetMask(mask)
	}

	if name := first(c.flags.compression, cfg.Compression); name != "" {
		method, err := zipper.ParseCompression(name)
		if err != nil {
			return err
		}
		if _, err := z.SetCompression(method); err != nil {
			return err
		}
	}

	if c.flags.password != "" {
		z.SetPassword(c.flags.password)
	}
	if c.flags.path != "" {
		if _, err := z.SetPath(config.ExpandPath(c.flags.path)); err != nil {
			return err
		}
	}
	return nil
}

// session opens (or creates) archive and applies settings. If a setting is
// rejected the archive is released without committing anything.
func (c *CLI) session(archive string, create bool) (*zipper.Zip, *config.Config, error) {
	cfg, logger, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	open := zipper.Open
	if create {
		open = zipper.Create
	}
	z, err := open(archive, c.zipOptions(logger)...)
	if err != nil {
		return nil, nil, err
	}
	if err := c.configure(z, cfg); err != nil {
		_ = z.Discard()
		return nil, nil, err
	}
	return z, cfg, nil
}
