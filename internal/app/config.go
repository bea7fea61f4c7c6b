package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFlagName = "config"

// addConfigFlag registers --config and routes BASENAME_* environment
// variables into v.
func addConfigFlag(basename string, v *viper.Viper, fs *pflag.FlagSet) {
	v.SetEnvPrefix(strings.Replace(strings.ToUpper(basename), "-", "_", -1))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	fs.StringP(configFlagName, "C", "",
		"Read configuration from specified `FILE`, support JSON, TOML, YAML, HCL, or Java properties formats.")
}

// loadConfig reads the --config file, if any, and binds every parsed flag so
// that an explicitly set flag wins over env and file values.
func loadConfig(v *viper.Viper, fs *pflag.FlagSet) error {
	if f := fs.Lookup(configFlagName); f != nil && f.Value.String() != "" {
		v.SetConfigFile(f.Value.String())
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read configuration file(%s)", f.Value.String())
		}
	}
	return errors.Wrap(v.BindPFlags(fs), "bind flags")
}

// completeOptions merges v into opts and runs its validation.
func completeOptions(v *viper.Viper, opts CliOptions) error {
	if opts == nil {
		return nil
	}
	if err := v.Unmarshal(opts); err != nil {
		return errors.Wrap(err, "unmarshal options")
	}
	if errs := opts.Validate(); len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, err := range errs {
			msgs = append(msgs, err.Error())
		}
		return errors.Errorf("invalid options: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func printConfig(w io.Writer, v *viper.Viper) {
	keys := v.AllKeys()
	if len(keys) == 0 {
		return
	}
	fmt.Fprintf(w, "%v Configuration items:\n", progressMessage)
	table := uitable.New()
	table.Separator = " "
	table.MaxColWidth = 80
	table.RightAlign(0)
	for _, k := range keys {
		table.AddRow(fmt.Sprintf("%s:", k), v.Get(k))
	}
	fmt.Fprintln(w, table)
}

var progressMessage = color.GreenString("==>")
