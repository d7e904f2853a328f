package config

import (
	"errors"
	"fmt"
	"slices"
)

var ErrUnsupportedOS = errors.New("this tool supports Linux, macOS, and Windows only")

var supportedOS = []string{"linux", "darwin", "windows"}

// CheckPlatform fails for any GOOS the metric source is not known to work on.
func CheckPlatform(goos string) error {
	if !slices.Contains(supportedOS, goos) {
		return fmt.Errorf("%w: running on %s", ErrUnsupportedOS, goos)
	}
	return nil
}
