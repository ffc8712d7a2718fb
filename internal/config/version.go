package config

// Version is the rentdesk binary version, set at build time via
// -ldflags "-X github.com/rentdesk/rentdesk/internal/config.Version=<tag>".
var Version = "dev"
