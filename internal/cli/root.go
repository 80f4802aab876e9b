package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ppiankov/chatnow/internal/answer"
	"github.com/ppiankov/chatnow/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const version = "0.1.0"

var (
	// Global flags
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "chatnow",
	Short: "Terminal chat client for the Gemini generative-language API",
	Long: `chatnow sends a message to the Gemini generateContent API and shows the
reply with light formatting: links become clickable, bullet lists are drawn
as lists, and markup characters are stripped.

Run without a subcommand to open the interactive panel.

Examples:
  # Interactive panel
  GEMINI_API_KEY=... chatnow

  # One-shot, for scripts
  chatnow ask "what is a goroutine?"
  echo "summarise this" | chatnow ask --format json`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runChat,
	// Disable default completion command
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return util.InvalidInput(err)
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.chatnow.yaml)")
	flags.String("api-key", "", "Gemini API key (prefer CHATNOW_API_KEY or GEMINI_API_KEY)")
	flags.String("endpoint", answer.DefaultEndpoint, "API base URL")
	flags.String("api-version", answer.DefaultAPIVersion, "API version path segment")
	flags.String("model", answer.DefaultModel, "model name")
	flags.String("backend", answer.BackendREST, "client backend: rest|sdk")
	flags.Duration("timeout", 0, "request timeout (0 keeps the transport default)")
	flags.String("log-file", "", "write diagnostic logs to this file")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	flags.String("export", defaultExportPath, "ctrl+s export target; the extension picks the format")
	flags.Bool("hyperlinks", true, "emit OSC 8 hyperlinks for URLs in replies")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	bindFlags(viper.GetViper(), flags)
}

// bindFlags binds persistent flags to their config keys.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	for key, flag := range map[string]string{
		"api_key":      "api-key",
		"endpoint":     "endpoint",
		"api_version":  "api-version",
		"model":        "model",
		"backend":      "backend",
		"timeout":      "timeout",
		"log_file":     "log-file",
		"metrics_addr": "metrics-addr",
		"export_path":  "export",
		"hyperlinks":   "hyperlinks",
		"verbose":      "verbose",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
}

// initConfig reads in .env, the config file and ENV variables if set
func initConfig() {
	// A missing .env is the common case.
	_ = godotenv.Load(".env")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		// Search config in home directory with name ".chatnow" (without extension)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".chatnow")
	}

	bindEnv(viper.GetViper())

	// If a config file is found, read it in
	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		if IsVerbose() {
			fmt.Fprintf(os.Stderr, "[chatnow] Using config file: %s\n", viper.ConfigFileUsed())
		}
	case errors.As(err, &notFound):
	default:
		if cfgFile != "" || IsVerbose() {
			fmt.Fprintf(os.Stderr, "[chatnow] Ignoring config file: %v\n", err)
		}
	}
}

// bindEnv maps CHATNOW_* variables onto config keys. GEMINI_API_KEY is
// accepted as a fallback for the key.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("chatnow")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("api_key", "CHATNOW_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("export_path", "CHATNOW_EXPORT")
}

// IsVerbose returns the verbose flag value
func IsVerbose() bool {
	return verbose || viper.GetBool("verbose")
}
