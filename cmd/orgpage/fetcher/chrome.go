package fetcher

import (
	"os/exec"

	"github.com/jmylchreest/orgpage/internal/logger"
)

// Common Chrome/Chromium binary names across different systems
var chromeBinaryNames = []string{
	"google-chrome-stable",
	"google-chrome",
	"chromium",
	"chromium-browser",
	"chrome",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
	"/usr/bin/google-chrome-stable",
	"/usr/bin/chromium",
	"/snap/bin/chromium",
	`C:\Program Files\Google\Chrome\Application\chrome.exe`,
	`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
}

// FindChromePath searches PATH and common install locations for a
// Chrome/Chromium binary. It returns "" when none is found.
func FindChromePath() string {
	return findBinary(chromeBinaryNames, exec.LookPath)
}

func findBinary(names []string, lookPath func(string) (string, error)) string {
	for _, name := range names {
		if path, err := lookPath(name); err == nil {
			logger.Debug("found Chrome binary", "name", name, "path", path)
			return path
		}
	}
	logger.Warn("no Chrome binary found - dynamic fetch mode may not work")
	return ""
}
