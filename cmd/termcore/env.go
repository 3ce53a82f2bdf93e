package main

import (
	"github.com/charmbracelet/colorprofile"
)

// colorTermFor picks COLORTERM for the child from the colour support of
// the terminal termcore itself draws on. Frames are downsampled to that
// profile anyway, so direct colour is only advertised when it survives.
// TERM stays as configured: it describes the engine, not the host.
func colorTermFor(profile colorprofile.Profile, configured string) string {
	switch profile {
	case colorprofile.TrueColor:
		return configured
	case colorprofile.Ascii, colorprofile.NoTTY, colorprofile.ANSI, colorprofile.ANSI256:
		return ""
	}
	return configured
}
