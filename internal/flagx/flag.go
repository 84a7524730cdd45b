// Package flagx contains helpers for parsing only a subset of command-line
// flags, so several configuration layers can share os.Args.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the arguments of args that belong to one of the
// allowedFlags, together with their values.
//
// Both "-f value" and "-f=value" forms are supported, and a flag may be
// spelled with one or two leading dashes regardless of how it is listed.
// A value directly following a flag is kept only when it does not look like
// another flag.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[flagName(f)] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		if name, _, found := strings.Cut(arg, "="); found {
			if _, ok := allowed[flagName(name)]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[flagName(arg)]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

func flagName(f string) string {
	return strings.TrimLeft(f, "-")
}

// ConfigFileFlag extracts the path given via -c or -config from args.
// It returns an empty string when neither flag is present.
func ConfigFileFlag(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}
