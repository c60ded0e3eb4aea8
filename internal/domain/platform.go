package domain

import (
	"fmt"
	"strings"
)

// Platform identifies an external coding platform
type Platform string

// Supported platforms
const (
	PlatformLeetCode   Platform = "leetcode"
	PlatformCodeforces Platform = "codeforces"
	PlatformCodeChef   Platform = "codechef"
	PlatformGitHub     Platform = "github"

	// PlatformDemo is only produced by the demo adapter and is never accepted from callers
	PlatformDemo Platform = "demo"
)

// supportedPlatforms is ordered; callers rely on the order for stable responses
var supportedPlatforms = []Platform{
	PlatformLeetCode,
	PlatformCodeforces,
	PlatformCodeChef,
	PlatformGitHub,
}

// SupportedPlatforms returns the fixed set of platforms a user can connect
func SupportedPlatforms() []Platform {
	out := make([]Platform, len(supportedPlatforms))
	copy(out, supportedPlatforms)
	return out
}

// ParsePlatform converts user input to a Platform, case-insensitively
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsSupported() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlatform, s)
	}
	return p, nil
}

// IsSupported reports whether p is one of the connectable platforms
func (p Platform) IsSupported() bool {
	for _, sp := range supportedPlatforms {
		if p == sp {
			return true
		}
	}
	return false
}

func (p Platform) String() string {
	return string(p)
}

// DisplayName returns the human-readable platform name
func (p Platform) DisplayName() string {
	switch p {
	case PlatformLeetCode:
		return "LeetCode"
	case PlatformCodeforces:
		return "Codeforces"
	case PlatformCodeChef:
		return "CodeChef"
	case PlatformGitHub:
		return "GitHub"
	case PlatformDemo:
		return "Demo"
	default:
		return string(p)
	}
}
