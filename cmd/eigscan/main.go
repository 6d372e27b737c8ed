// Command eigscan finds the integer eigenvalues of an integer matrix inside a
// range, with an exact eigenspace basis for each.
package main

import (
	"context"
	"os"

	"github.com/agbru/eigscan/internal/app"
	apperrors "github.com/agbru/eigscan/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		os.Exit(apperrors.ExitSuccess)
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		// ParseConfig has already reported the problem and the usage.
		os.Exit(apperrors.ExitErrorConfig)
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
