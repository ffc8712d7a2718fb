// Command rentdesk is a command-line client for the rentdesk API.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rentdesk/rentdesk/client"
)

// Build-time variables set via ldflags.
var (
	version   = "0.3.0"
	commit    = ""
	buildDate = ""
)

const defaultURL = "http://localhost:3040"

var (
	apiClient   *client.Client
	flagURL     string
	flagKey     string
	flagFmt     string
	flagProfile string
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("rentdesk version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("rentdesk version %s-dev", version)
}

// configFile is ~/.rentdesk/config.yaml.
type configFile struct {
	Profiles      map[string]profileConfig `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

// profileConfig holds connection settings for a single profile.
type profileConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "rentdesk",
		Short:   "rentdesk CLI for rental maintenance requests",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			var opts []client.Option
			if flagKey != "" {
				opts = append(opts, client.WithAPIKey(flagKey))
			}
			apiClient = client.New(flagURL, opts...)
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "Server URL (env: RENTDESK_URL)")
	rootCmd.PersistentFlags().StringVar(&flagKey, "api-key", "", "API key (env: RENTDESK_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|table|quiet")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "Config profile (env: RENTDESK_PROFILE)")

	initCmd := newInitCmd()
	initCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {} // skip client setup

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(newRequestCmd())
	rootCmd.AddCommand(newNoteCmd())
	rootCmd.AddCommand(newCalendarCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newAuditCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig fills URL and key from flags, then env, then the config file.
func resolveConfig() {
	if flagURL == defaultURL {
		if v := os.Getenv("RENTDESK_URL"); v != "" {
			flagURL = v
		}
	}
	if flagKey == "" {
		flagKey = os.Getenv("RENTDESK_API_KEY")
	}
	if flagProfile == "" {
		flagProfile = os.Getenv("RENTDESK_PROFILE")
	}

	cfg, err := loadConfigFile()
	if err != nil || cfg.Profiles == nil {
		return
	}

	name := flagProfile
	if name == "" {
		name = cfg.ActiveProfile
	}
	if name == "" {
		name = "default"
	}

	p, ok := cfg.Profiles[name]
	if !ok {
		return
	}
	if flagURL == defaultURL && p.URL != "" {
		flagURL = p.URL
	}
	if flagKey == "" && p.APIKey != "" {
		flagKey = p.APIKey
	}
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".rentdesk", "config.yaml"), nil
}

func loadConfigFile() (*configFile, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}
