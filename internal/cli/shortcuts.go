package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/booru-prompt/booru-prompt/internal/pageurl"
)

// expandShortcut lets "booru-prompt <id|url> [flags]" stand for
// "booru-prompt extract <id|url> [flags]".
//
// Only the first non-flag argument is inspected; anything that is already a
// subcommand or does not look like a post ID or URL is passed through.
// Values of global flags ("--config x.ini") are not mistaken for arguments.
func expandShortcut(rootCmd *cobra.Command, args []string) []string {
	skipValue := false
	for i, arg := range args {
		if skipValue {
			skipValue = false
			continue
		}
		if len(arg) > 0 && arg[0] == '-' {
			skipValue = takesValue(rootCmd, arg)
			continue
		}
		if sub, _, err := rootCmd.Find([]string{arg}); err == nil && sub != rootCmd {
			return args
		}
		if _, ok := pageurl.Identifier(arg); !ok {
			return args
		}

		expanded := make([]string, 0, len(args)+1)
		expanded = append(expanded, args[:i]...)
		expanded = append(expanded, "extract")
		return append(expanded, args[i:]...)
	}
	return args
}

// takesValue reports whether arg is a persistent flag whose value is the next argument.
func takesValue(rootCmd *cobra.Command, arg string) bool {
	if strings.Contains(arg, "=") {
		return false
	}
	flags := rootCmd.PersistentFlags()
	var name string
	switch {
	case strings.HasPrefix(arg, "--"):
		name = arg[2:]
	case len(arg) == 2:
		if f := flags.ShorthandLookup(arg[1:]); f != nil {
			name = f.Name
		}
	}
	if name == "" {
		return false
	}
	f := flags.Lookup(name)
	return f != nil && f.Value.Type() != "bool"
}
