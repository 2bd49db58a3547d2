package main

import (
	"fmt"
	"os"

	"career-console/internal/backend"
	"career-console/internal/config"
	"career-console/internal/identity"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	apiURL  string
	token   string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "importctl",
	Short: "Bulk-load CSV and Excel files into the career backend",
	Long: `importctl runs the import wizard from the command line: it reads a file,
auto-matches its columns against the target table, uploads it and follows the
resulting job until it finishes.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(runCmd, schemasCmd, statusCmd)
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Career backend base URL (overrides CAREER_API_URL)")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", "", "Bearer token (defaults to CAREER_TOKEN)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log backend traffic")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %s", err)
		os.Exit(1)
	}
}

// newLogger is silent unless --verbose is given.
func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIBaseURL = config.ResolveAPIBaseURL(apiURL, cfg.Environment)
	}
	return cfg, nil
}

// newClient builds the backend client and the caller's session from the
// token flag or CAREER_TOKEN.
func newClient(log *zap.Logger) (*backend.Client, identity.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	raw := token
	if raw == "" {
		raw = os.Getenv("CAREER_TOKEN")
	}
	if raw == "" {
		return nil, nil, fmt.Errorf("no token: pass --token or set CAREER_TOKEN")
	}
	var secret []byte
	if cfg.JWTSecret != "" {
		secret = []byte(cfg.JWTSecret)
	}
	sess, err := identity.NewBearerSession(raw, secret)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid token: %w", err)
	}
	return backend.NewClient(cfg, log), sess, nil
}
