package cli

import (
	"fmt"
	"io"
	"strings"
)

// completionFlag describes one option for the completion scripts.
type completionFlag struct {
	long, short string
	desc        string
	// values lists suggested arguments; "@engines" expands to the engine
	// names and "@file" completes paths. Empty means a boolean flag.
	values string
}

var completionFlags = []completionFlag{
	{"matrix", "m", "Matrix literal such as 2,0;0,3", "@any"},
	{"file", "f", "YAML or JSON problem file", "@file"},
	{"lo", "", "Lower bound of the eigenvalue search", "-10 -100 -1000"},
	{"hi", "", "Upper bound of the eigenvalue search", "10 100 1000"},
	{"engine", "", "Determinant engine", "@engines"},
	{"det", "", "Only compute the determinant", ""},
	{"values", "", "Report eigenvalues without eigenvectors", ""},
	{"canonical", "", "Positive first entry in eigenvectors", ""},
	{"max-dim", "", "Largest accepted matrix order", "4 8 16"},
	{"timeout", "", "Maximum execution time", "10s 1m 5m 30m"},
	{"json", "", "Output in JSON format", ""},
	{"quiet", "q", "Quiet mode for scripts", ""},
	{"v", "", "Show the matrix and timing details", ""},
	{"output", "o", "Also write the report to a file", "@file"},
	{"interactive", "", "Prompt for the matrix and range", ""},
	{"no-color", "", "Disable colored output", ""},
	{"log-level", "", "Log level", "debug info warn error"},
	{"completion", "", "Generate completion script", "bash zsh fish"},
	{"server", "", "Start HTTP server mode", ""},
	{"port", "", "Server port", "8080 3000 5000 9000"},
	{"rate-limit", "", "Requests per second per client", "5 10 50"},
	{"rate-burst", "", "Request burst per client", "10 20 100"},
	{"max-range", "", "Largest lambda range per request", "1000 100000"},
	{"version", "V", "Show version information", ""},
}

// GenerateCompletion writes a completion script for shell ("bash", "zsh" or
// "fish"). engines are the registered engine names; "all" is appended.
func GenerateCompletion(out io.Writer, shell string, engines []string) error {
	engineList := strings.Join(append(append([]string{}, engines...), "all"), " ")
	switch shell {
	case "bash":
		return generateBashCompletion(out, engineList)
	case "zsh":
		return generateZshCompletion(out, engineList)
	case "fish":
		return generateFishCompletion(out, engineList)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
}

func (f completionFlag) suggestions(engines string) string {
	if f.values == "@engines" {
		return engines
	}
	return f.values
}

func generateBashCompletion(out io.Writer, engines string) error {
	var opts []string
	var cases strings.Builder
	for _, f := range completionFlags {
		names := []string{"-" + f.long}
		if f.short != "" {
			names = append(names, "-"+f.short)
		}
		opts = append(opts, names...)
		switch f.values {
		case "", "@any":
		case "@file":
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n",
				strings.Join(names, "|"))
		default:
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				strings.Join(names, "|"), f.suggestions(engines))
		}
	}

	_, err := fmt.Fprintf(out, `# Bash completion script for eigscan
# Add this to your ~/.bashrc or ~/.bash_completion

_eigscan_completions() {
    local cur prev
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "%s -h -help" -- "${cur}") )
        return 0
    fi
}

complete -F _eigscan_completions eigscan
`, cases.String(), strings.Join(opts, " "))
	return err
}

func generateZshCompletion(out io.Writer, engines string) error {
	var args strings.Builder
	for _, f := range completionFlags {
		spec := "-" + f.long
		if f.short != "" {
			spec = fmt.Sprintf("(-%s -%s)'{-%s,-%s}'", f.long, f.short, f.long, f.short)
		}
		var action string
		switch f.values {
		case "":
		case "@any":
			action = ":value:"
		case "@file":
			action = ":file:_files"
		default:
			action = fmt.Sprintf(":value:(%s)", f.suggestions(engines))
		}
		fmt.Fprintf(&args, "        '%s[%s]%s' \\\n", spec, f.desc, action)
	}

	_, err := fmt.Fprintf(out, `#compdef eigscan

# Zsh completion script for eigscan
# Add this to your ~/.zshrc or place in $fpath

_eigscan() {
    _arguments -s \
%s        '(-h -help)'{-h,-help}'[Show help message]'
}

_eigscan "$@"
`, args.String())
	return err
}

func generateFishCompletion(out io.Writer, engines string) error {
	var b strings.Builder
	b.WriteString("# Fish completion script for eigscan\n")
	b.WriteString("# Add this to ~/.config/fish/completions/eigscan.fish\n\n")
	b.WriteString("complete -c eigscan -f\n")
	b.WriteString("complete -c eigscan -o h -o help -d 'Show help message'\n")
	for _, f := range completionFlags {
		fmt.Fprintf(&b, "complete -c eigscan -o %s", f.long)
		if f.short != "" {
			fmt.Fprintf(&b, " -o %s", f.short)
		}
		fmt.Fprintf(&b, " -d '%s'", f.desc)
		switch f.values {
		case "":
		case "@any":
			b.WriteString(" -x")
		case "@file":
			b.WriteString(" -rF")
		default:
			fmt.Fprintf(&b, " -xa '%s'", f.suggestions(engines))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(out, b.String())
	return err
}
