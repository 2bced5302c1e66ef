package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/huangsam/devinsight/schema"
)

// Color variables for console output.
var (
	RedFlagColor    = color.New(color.FgRed, color.Bold) // Red flags and High risk are standard danger.
	YellowFlagColor = color.New(color.FgYellow)          // Yellow flags are standard caution, not bold.
	GreenFlagColor  = color.New(color.FgGreen)           // Green flags are healthy.
	MediumColor     = color.New(color.FgMagenta)         // Medium risk sits between caution and danger.
	NoneColor       = color.New(color.FgCyan)            // No risk is informational only.
)

// GetColorFlag returns a colored traffic-light flag for console output.
func GetColorFlag(flag schema.RiskFlag) string {
	switch flag {
	case schema.RedFlag:
		return RedFlagColor.Sprint(string(flag))
	case schema.YellowFlag:
		return YellowFlagColor.Sprint(string(flag))
	default:
		return GreenFlagColor.Sprint(string(flag))
	}
}

// GetColorRisk returns a colored overall risk level for console output.
func GetColorRisk(level schema.RiskLevel) string {
	switch level {
	case schema.RiskHigh:
		return RedFlagColor.Sprint(string(level))
	case schema.RiskMedium:
		return MediumColor.Sprint(string(level))
	case schema.RiskLow:
		return YellowFlagColor.Sprint(string(level))
	default:
		return NoneColor.Sprint(string(level))
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the
// provided file path. It falls back to os.Stdout on an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldIgnore returns true if the given path matches any of the ignore patterns.
// It supports simple glob patterns (using filepath.Match) when the pattern
// contains wildcard characters (*, ?, [ ]). Patterns ending with '/' are treated
// as prefixes. Patterns starting with '.' are treated as suffix (extension) matches.
// A user can provide patterns like "archive/", "*audit.json", ".bak".
func ShouldIgnore(path string, patterns []string) bool {
	for _, pat := range patterns {
		pat = strings.TrimSpace(pat)
		if pat == "" {
			continue
		}

		// If the pattern contains glob characters, try filepath.Match.
		if strings.ContainsAny(pat, "*?[") {
			p := strings.ReplaceAll(pat, "**", "*")
			if ok, err := filepath.Match(p, path); err == nil && ok {
				return true
			}
			// Also try matching against the base filename (e.g. *audit.json)
			if ok, err := filepath.Match(p, filepath.Base(path)); err == nil && ok {
				return true
			}
			continue
		}

		// Handle prefix, suffix, or substring matches
		switch {
		case strings.HasSuffix(pat, "/"):
			if strings.HasPrefix(path, pat) {
				return true
			}
		case strings.HasPrefix(pat, "."):
			if strings.HasSuffix(path, pat) {
				return true
			}
		case strings.Contains(path, pat):
			return true
		}
	}
	return false
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and
// at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
