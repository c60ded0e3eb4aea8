package config

import "strings"

// Placeholder values shipped in .env.example
const (
	exampleDBPassword = "change_this_secure_password"
	exampleAPIKey     = "generate_with_openssl_rand_hex_32"
)

// Warnings reports non-fatal configuration issues worth surfacing at startup
func (c *Config) Warnings() []string {
	var warnings []string

	if c.UsesPostgres() && c.DBPassword == exampleDBPassword {
		warnings = append(warnings, WarnMsgExampleDBPassword)
	}
	if c.APIKey == exampleAPIKey {
		warnings = append(warnings, WarnMsgExampleAPIKey)
	}
	if strings.TrimSpace(c.GitHubToken) == "" {
		warnings = append(warnings, WarnMsgNoGitHubToken)
	}
	if c.DemoMode && !c.IsDevelopment() {
		warnings = append(warnings, WarnMsgDemoOutsideDev)
	}
	if !c.UsesPostgres() {
		warnings = append(warnings, WarnMsgMemoryBackend)
	}

	return warnings
}
