package cli

import apperrors "github.com/agbru/eigscan/internal/errors"

var _ apperrors.ColorProvider = CLIColorProvider{}

// CLIColorProvider feeds the current theme to apperrors.HandleScanError.
type CLIColorProvider struct{}

func (CLIColorProvider) Yellow() string { return ColorYellow() }
func (CLIColorProvider) Red() string    { return ColorRed() }
func (CLIColorProvider) Reset() string  { return ColorReset() }
