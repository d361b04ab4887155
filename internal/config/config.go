// Package config loads Panopticon settings from the environment.
//
// Callers load a .env file first (godotenv) and then call Load. Nothing in
// this package touches the filesystem beyond reading environment variables;
// directories are created later by the components that own them.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds every tunable used by the Panopticon binaries.
type Config struct {
	// Root is the repository root containing the content directories.
	Root string
	// CatalogDir is where catalog YAML files are written.
	CatalogDir string
	// NoColor disables ANSI colors in terminal output.
	NoColor bool
	// LogLevel is the minimum slog level for diagnostic logs.
	LogLevel slog.Level

	Research ResearchConfig
	OpenAI   OpenAIConfig
	GitHub   GitHubConfig
	Server   ServerConfig
}

// ResearchConfig configures the autonomous research loop.
type ResearchConfig struct {
	AgentCommand  string
	AgentArgs     []string
	Timeout       time.Duration
	MaxIterations int
	TasksFile     string
}

// OpenAIConfig configures the OpenAI research runner.
type OpenAIConfig struct {
	APIKey string
	Model  string
}

// GitHubConfig configures remote reference checks.
type GitHubConfig struct {
	Token  string
	Owner  string
	Repo   string
	Ref    string
	Prefix string
}

// Enabled reports whether a remote repository is configured.
func (c GitHubConfig) Enabled() bool {
	return c.Owner != "" && c.Repo != ""
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Port     string
	HTTPMode bool
}

const (
	DefaultCatalogSubdir   = ".claude/catalog"
	DefaultResearchTimeout = 600 * time.Second
	DefaultMaxIterations   = 10
	DefaultAgentCommand    = "claude"
	DefaultAgentArgs       = "-p --permission-mode bypassPermissions"
	DefaultOpenAIModel     = "gpt-4o"
)

// Load reads configuration from the environment and applies defaults.
func Load() (*Config, error) {
	root := getEnv("PANOPTICON_ROOT", ".")
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}

	level, err := parseLevel(getEnv("PANOPTICON_LOG_LEVEL", "warn"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Root:       absRoot,
		CatalogDir: getEnv("PANOPTICON_CATALOG_DIR", filepath.Join(absRoot, DefaultCatalogSubdir)),
		NoColor:    getEnvBool("PANOPTICON_NO_COLOR", false),
		LogLevel:   level,
		Research: ResearchConfig{
			AgentCommand:  getEnv("RESEARCH_AGENT_COMMAND", DefaultAgentCommand),
			AgentArgs:     strings.Fields(getEnv("RESEARCH_AGENT_ARGS", DefaultAgentArgs)),
			Timeout:       time.Duration(getEnvInt("RESEARCH_TIMEOUT", int(DefaultResearchTimeout/time.Second))) * time.Second,
			MaxIterations: getEnvInt("RESEARCH_MAX_ITERATIONS", DefaultMaxIterations),
			TasksFile:     getEnv("RESEARCH_TASKS_FILE", filepath.Join(absRoot, "research-tasks.md")),
		},
		OpenAI: OpenAIConfig{
			APIKey: os.Getenv("OPENAI_API_KEY"),
			Model:  getEnv("OPENAI_MODEL", DefaultOpenAIModel),
		},
		GitHub: GitHubConfig{
			Token:  os.Getenv("GITHUB_TOKEN"),
			Ref:    os.Getenv("XREF_GITHUB_REF"),
			Prefix: getEnv("XREF_GITHUB_PREFIX", "server/"),
		},
		Server: ServerConfig{
			Port:     getEnv("PORT", "8080"),
			HTTPMode: getEnvBool("SERVER_MODE", false),
		},
	}

	if repo := os.Getenv("XREF_GITHUB_REPO"); repo != "" {
		owner, name, ok := strings.Cut(repo, "/")
		if !ok || owner == "" || name == "" {
			return nil, fmt.Errorf("XREF_GITHUB_REPO must be owner/name, got %q", repo)
		}
		cfg.GitHub.Owner = owner
		cfg.GitHub.Repo = name
	}

	return cfg, nil
}

// NewLogger builds the diagnostic logger for a CLI process.
func (c *Config) NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel}))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid PANOPTICON_LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}
