package app

import (
	"github.com/spf13/pflag"
)

// CliOptions abstracts configuration options for reading parameters from the
// command line.
type CliOptions interface {
	// AddFlags adds flags to the specified FlagSet object.
	AddFlags(fs *pflag.FlagSet)

	// Validate is called after flags, environment and configuration file
	// have been merged into the options.
	Validate() []error
}
