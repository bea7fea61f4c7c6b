package version

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/pflag"
)

const flagName = "version"
const flagShortHand = "V"

type value int

const (
	boolFalse value = 0
	boolTrue  value = 1
	allInfo   value = 3

	strAllVersionInfo string = "all"
)

func (v *value) Set(s string) error {
	if s == strAllVersionInfo {
		*v = allInfo
		return nil
	}
	boolVal, err := strconv.ParseBool(s)
	if boolVal {
		*v = boolTrue
	} else {
		*v = boolFalse
	}
	return err
}

func (v *value) String() string {
	switch *v {
	case allInfo:
		return strAllVersionInfo
	case boolTrue:
		return "true"
	default:
		return "false"
	}
}

// The type of the flag as required by the pflag.Value interface
func (v *value) Type() string {
	return "version"
}

// Flag 保存一個 FlagSet 上的 --version 狀態
type Flag struct {
	v value
}

// AddFlags registers --version on fs. "--version" is treated as
// "--version=true", "--version=all" prints the full build info.
func (f *Flag) AddFlags(fs *pflag.FlagSet) {
	fs.VarP(&f.v, flagName, flagShortHand, "Print version information and quit. Use --version=all for build details.")
	fs.Lookup(flagName).NoOptDefVal = "true"
}

// PrintIfRequested writes the version to w when --version was passed and
// reports whether it did.
func (f *Flag) PrintIfRequested(w io.Writer, appName string) bool {
	switch f.v {
	case allInfo:
		fmt.Fprintf(w, "%s\n", Get())
		return true
	case boolTrue:
		fmt.Fprintf(w, "%s %s\n", appName, Get().GitVersion)
		return true
	}
	return false
}
