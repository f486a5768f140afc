package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcdonaldj/zipkit/internal/config"
	"github.com/mcdonaldj/zipkit/zipper"
)

func (c *CLI) createCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <archive> <file>...",
		Short: "Create a new archive from files and folders",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Create(args[0], args[1:])
		},
	}
}

func (c *CLI) addCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <archive> <file>...",
		Short: "Add files and folders to an existing archive",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Add(args[0], args[1:])
		},
	}
}

func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list <archive>",
		Aliases: []string{"ls"},
		Short:   "List archive entries",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.List(args[0])
		},
	}
}

func (c *CLI) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <archive> <entry>...",
		Aliases: []string{"rm"},
		Short:   "Delete entries from an archive",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Delete(args[0], args[1:])
		},
	}
}

func (c *CLI) extractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <archive> <destination> [entry...]",
		Short: "Extract an archive, or selected entries, into a folder",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Extract(args[0], args[1], args[2:])
		},
	}
}

func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <archive>",
		Short: "Verify archive consistency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Check(args[0])
		},
	}
}

func (c *CLI) uiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ui <archive>",
		Short: "Browse an archive interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.UI(args[0])
		},
	}
}

func (c *CLI) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.InitConfig()
		},
	}
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.Out, "zipkit %s\n", c.Version)
		},
	}
}

// commit runs apply and closes z. If either step fails z is discarded, so
// nothing is written.
func commit(z *zipper.Zip, apply func() error) error {
	if err := apply(); err != nil {
		_ = z.Discard()
		return err
	}
	if err := z.Close(); err != nil {
		_ = z.Discard()
		return err
	}
	return nil
}

// Create builds a new archive from files. Nothing is written if adding fails.
func (c *CLI) Create(archive string, files []string) error {
	z, _, err := c.session(archive, true)
	if err != nil {
		return err
	}
	var count int
	err = commit(z, func() error {
		if _, err := z.Add(files...); err != nil {
			return err
		}
		count = z.Count()
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Out, "%s Created %s %s\n", c.green("*"), archive, c.gray(fmt.Sprintf("(%d entries)", count)))
	return nil
}

// Add appends files to an existing archive.
func (c *CLI) Add(archive string, files []string) error {
	z, _, err := c.session(archive, false)
	if err != nil {
		return err
	}
	before, added := z.Count(), 0
	err = commit(z, func() error {
		if _, err := z.Add(files...); err != nil {
			return err
		}
		added = z.Count() - before
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Out, "%s Added %d entries to %s\n", c.green("*"), added, archive)
	return nil
}

// List prints every entry name, one per line.
func (c *CLI) List(archive string) error {
	z, _, err := c.session(archive, false)
	if err != nil {
		return err
	}
	defer func() { _ = z.Discard() }()

	files, err := z.ListFiles()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(c.Out, c.gray("(empty archive)"))
		return nil
	}
	for _, name := range files {
		fmt.Fprintln(c.Out, name)
	}
	return nil
}

// Delete removes entries and commits the archive.
func (c *CLI) Delete(archive string, entries []string) error {
	z, _, err := c.session(archive, false)
	if err != nil {
		return err
	}
	err = commit(z, func() error {
		_, err := z.Delete(entries...)
		return err
	})
	if err != nil {
		return err
	}

	for _, name := range entries {
		fmt.Fprintf(c.Out, "%s Deleted %s\n", c.yellow("-"), name)
	}
	return nil
}

// Extract unpacks the archive, or only entries when given, into destination.
func (c *CLI) Extract(archive, destination string, entries []string) error {
	z, _, err := c.session(archive, false)
	if err != nil {
		return err
	}
	defer func() { _ = z.Discard() }()

	destination = config.ExpandPath(destination)
	if err := z.Extract(destination, entries...); err != nil {
		return err
	}

	fmt.Fprintf(c.Out, "%s Extracted %s to %s\n", c.green("*"), archive, c.cyan(destination))
	return nil
}

// Check runs a consistency check on the archive.
func (c *CLI) Check(archive string) error {
	_, logger, err := c.loadConfig()
	if err != nil {
		return err
	}
	if err := zipper.Check(archive, c.zipOptions(logger)...); err != nil {
		return err
	}

	fmt.Fprintf(c.Out, "%s %s is consistent\n", c.green("*"), archive)
	return nil
}

// UI opens the archive in the interactive browser.
func (c *CLI) UI(archive string) error {
	z, cfg, err := c.session(archive, false)
	if err != nil {
		return err
	}
	return c.runUI()(z, config.ExpandPath(cfg.ExtractDir))
}

// InitConfig writes the default configuration file.
func (c *CLI) InitConfig() error {
	svc := c.configSvc()
	if err := svc.Save(svc.DefaultConfig()); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(c.Out, "Created config at %s\n", svc.ConfigPath())
	return nil
}
