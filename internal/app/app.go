package app

import (
	"fmt"
	"io"
	"os"

	"github.com/Hakuto4838/skipmap/internal/app/version"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var usageTemplate = fmt.Sprintf(`%s{{if .Runnable}}
  %s{{end}}{{if .HasAvailableSubCommands}}
  %s{{end}}{{if gt (len .Aliases) 0}}

%s
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

%s
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

%s{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  %s {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

%s
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

%s
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

%s{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "%s --help" for more information about a command.{{end}}
`,
	color.CyanString("Usage:"),
	color.GreenString("{{.UseLine}}"),
	color.GreenString("{{.CommandPath}} [command]"),
	color.CyanString("Aliases:"),
	color.CyanString("Examples:"),
	color.CyanString("Available Commands:"),
	color.GreenString("{{rpad .Name .NamePadding }}"),
	color.CyanString("Flags:"),
	color.CyanString("Global Flags:"),
	color.CyanString("Additional help topics:"),
	color.GreenString("{{.CommandPath}} [command]"),
)

// App is the main structure of a cli application.
// It is recommended that an app be created with the app.NewApp() function.
type App struct {
	name        string
	description string
	options     CliOptions
	silence     bool
	commands    []*Command
	viper       *viper.Viper
	version     version.Flag
	versionDone bool
	out         io.Writer
}

// Option defines optional parameters for initializing the application
// structure.
type Option func(*App)

// WithOptions registers global options. Their flags are persistent, so every
// sub command accepts them.
func WithOptions(opt CliOptions) Option {
	return func(a *App) {
		a.options = opt
	}
}

// WithDescription is used to set the description of the application.
func WithDescription(desc string) Option {
	return func(a *App) {
		a.description = desc
	}
}

// WithSilence sets the application to silent mode, in which the startup
// banner and the configuration items are not printed.
func WithSilence() Option {
	return func(a *App) {
		a.silence = true
	}
}

// WithOutput 設定 banner、版本與設定的輸出位置，預設 stderr
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		a.out = w
	}
}

// NewApp creates a new application instance based on the given application
// name and other options.
func NewApp(name string, opts ...Option) *App {
	a := &App{
		name:  name,
		viper: viper.New(),
		out:   os.Stderr,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// AddCommand adds sub command to the application.
func (a *App) AddCommand(cmd *Command) {
	a.commands = append(a.commands, cmd)
}

// AddCommands adds multiple sub commands to the application.
func (a *App) AddCommands(cmds ...*Command) {
	a.commands = append(a.commands, cmds...)
}

// Run is used to launch the application.
func (a *App) Run() {
	if err := a.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%v %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}

// Execute runs the application with args instead of os.Args.
func (a *App) Execute(args []string) error {
	cmd := a.buildCommand()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func (a *App) buildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           a.name,
		Long:          a.description,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetUsageTemplate(usageTemplate)
	cmd.Flags().SortFlags = false
	for _, command := range a.commands {
		cmd.AddCommand(command.cobraCommand(a))
	}

	fs := cmd.PersistentFlags()
	addConfigFlag(a.name, a.viper, fs)
	if a.options != nil {
		a.options.AddFlags(fs)
	}
	a.version.AddFlags(fs)

	cmd.PersistentPreRunE = a.preRun
	cmd.RunE = a.runCommand
	return cmd
}

// preRun 在任何 command 執行前合併 flag、環境變數與設定檔
func (a *App) preRun(cmd *cobra.Command, _ []string) error {
	if a.version.PrintIfRequested(a.out, a.name) {
		a.versionDone = true
		return nil
	}
	if err := loadConfig(a.viper, cmd.Flags()); err != nil {
		return err
	}
	if err := completeOptions(a.viper, a.options); err != nil {
		return err
	}
	if !a.silence {
		fmt.Fprintf(a.out, "%v Starting %s %s...\n", progressMessage, a.name, cmd.Name())
		printConfig(a.out, a.viper)
	}
	return nil
}

func (a *App) runCommand(cmd *cobra.Command, _ []string) error {
	if a.versionDone {
		return nil
	}
	return cmd.Help()
}
