package app

import (
	"github.com/spf13/cobra"
)

// Command is a sub command of an App.
type Command struct {
	usage   string
	desc    string
	options CliOptions
	runFunc RunCommandFunc
}

// CommandOption defines optional parameters for initializing the command
// structure.
type CommandOption func(*Command)

// RunCommandFunc defines the command's startup callback function.
type RunCommandFunc func(args []string) error

// WithCommandOptions sets the options whose flags belong to the command.
func WithCommandOptions(opt CliOptions) CommandOption {
	return func(c *Command) {
		c.options = opt
	}
}

// WithCommandRunFunc sets the command startup callback function.
func WithCommandRunFunc(run RunCommandFunc) CommandOption {
	return func(c *Command) {
		c.runFunc = run
	}
}

// NewCommand creates a new sub command instance based on the given command
// name and other options.
func NewCommand(usage, desc string, opts ...CommandOption) *Command {
	c := &Command{
		usage: usage,
		desc:  desc,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Command) cobraCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   c.usage,
		Short: c.desc,
	}
	cmd.SetUsageTemplate(usageTemplate)
	cmd.Flags().SortFlags = false
	if c.options != nil {
		c.options.AddFlags(cmd.Flags())
	}
	if c.runFunc != nil {
		cmd.RunE = func(_ *cobra.Command, args []string) error {
			if a.versionDone {
				return nil
			}
			if err := completeOptions(a.viper, c.options); err != nil {
				return err
			}
			return c.runFunc(args)
		}
	}
	return cmd
}
