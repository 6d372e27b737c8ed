package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/agbru/eigscan/internal/ui"
)

// setCustomUsage installs a colored usage screen on fs.
func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		t := ui.GetCurrentTheme()
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			t = ui.NoColorTheme
		}
		out := fs.Output()

		fmt.Fprintf(out, "\n%sInteger Eigenvalue Scanner%s\n", t.Bold, t.Reset)
		fmt.Fprintf(out, "Exact integer eigenvalues and primitive eigenvectors of small integer matrices.\n\n")
		fmt.Fprintf(out, "%sUsage:%s\n  %s [flags]\n\n", t.Warning, t.Reset, fs.Name())
		fmt.Fprintf(out, "%sExamples:%s\n", t.Warning, t.Reset)
		fmt.Fprintf(out, "  %s -matrix \"2,0;0,3\" -lo -5 -hi 5\n", fs.Name())
		fmt.Fprintf(out, "  %s -file problems.yaml -engine all\n", fs.Name())
		fmt.Fprintf(out, "  %s -interactive\n\n%sFlags:%s\n", fs.Name(), t.Warning, t.Reset)

		fs.VisitAll(func(f *flag.Flag) {
			name, usage := flag.UnquoteUsage(f)
			sig := "-" + f.Name
			if len(name) > 0 {
				sig += " " + name
			}
			fmt.Fprintf(out, "  %s%-25s%s %s", t.Primary, sig, t.Reset, usage)
			if f.DefValue != "" && f.DefValue != "0" && f.DefValue != "false" {
				fmt.Fprintf(out, " %s(default %s)%s", t.Secondary, f.DefValue, t.Reset)
			}
			fmt.Fprintln(out)
		})
		fmt.Fprintln(out)
	}
}
