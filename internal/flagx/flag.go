// Package flagx holds helpers for sharing os.Args between several
// independent flag sets.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the members of args that belong to allowedFlags,
// together with their values.
//
// Both "-c conf.json" and "-c=conf.json" forms are recognised. A token that
// starts with "-" is never consumed as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// SourceFiles extracts the configuration source paths from os.Args:
// the JSON config file (-c / -config) and the dotenv file (-env-file).
// Missing flags yield empty strings.
func SourceFiles() (jsonPath string, envPath string) {
	args := FilterArgs(os.Args[1:], []string{"-c", "-config", "-env-file"})

	fs := flag.NewFlagSet("sources", flag.ContinueOnError)
	fs.StringVar(&jsonPath, "config", "", "path to JSON config file")
	fs.StringVar(&jsonPath, "c", "", "path to JSON config file (short)")
	fs.StringVar(&envPath, "env-file", "", "path to .env file")
	_ = fs.Parse(args)

	return jsonPath, envPath
}
