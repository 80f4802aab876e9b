package cli

import (
	"fmt"
	"time"

	"github.com/ppiankov/chatnow/internal/answer"
	"github.com/ppiankov/chatnow/internal/metrics"
	"github.com/ppiankov/chatnow/internal/util"
	"github.com/spf13/viper"
)

const defaultExportPath = "chatnow-reply.md"

// Settings is the effective configuration after flags, env, config file and defaults.
type Settings struct {
	APIKey      string
	Endpoint    string
	APIVersion  string
	Model       string
	Backend     string
	Timeout     time.Duration
	LogFile     string
	MetricsAddr string
	ExportPath  string
	Hyperlinks  bool
	Verbose     bool
}

// LoadSettings reads the effective configuration from v.
func LoadSettings(v *viper.Viper) Settings {
	s := Settings{
		APIKey:      v.GetString("api_key"),
		Endpoint:    v.GetString("endpoint"),
		APIVersion:  v.GetString("api_version"),
		Model:       v.GetString("model"),
		Backend:     v.GetString("backend"),
		Timeout:     v.GetDuration("timeout"),
		LogFile:     v.GetString("log_file"),
		MetricsAddr: v.GetString("metrics_addr"),
		ExportPath:  v.GetString("export_path"),
		Hyperlinks:  true,
		Verbose:     v.GetBool("verbose"),
	}
	if v.IsSet("hyperlinks") {
		s.Hyperlinks = v.GetBool("hyperlinks")
	}

	if s.Endpoint == "" {
		s.Endpoint = answer.DefaultEndpoint
	}
	if s.APIVersion == "" {
		s.APIVersion = answer.DefaultAPIVersion
	}
	if s.Model == "" {
		s.Model = answer.DefaultModel
	}
	if s.Backend == "" {
		s.Backend = answer.BackendREST
	}
	if s.ExportPath == "" {
		s.ExportPath = defaultExportPath
	}
	return s
}

// Validate rejects configurations no request could succeed with.
func (s Settings) Validate() error {
	if s.APIKey == "" {
		return util.InvalidInput(fmt.Errorf("%w: set CHATNOW_API_KEY, GEMINI_API_KEY or --api-key", answer.ErrMissingAPIKey))
	}
	if s.Backend != answer.BackendREST && s.Backend != answer.BackendSDK {
		return util.InvalidInput(fmt.Errorf("%w: %q (want %s or %s)", answer.ErrUnknownBackend, s.Backend, answer.BackendREST, answer.BackendSDK))
	}
	if s.Timeout < 0 {
		return util.InvalidInput(fmt.Errorf("--timeout must not be negative, got %s", s.Timeout))
	}
	return nil
}

// AnswerConfig builds the backend configuration.
func (s Settings) AnswerConfig(rec *metrics.Recorder) answer.Config {
	return answer.Config{
		Backend:    s.Backend,
		Endpoint:   s.Endpoint,
		APIVersion: s.APIVersion,
		Model:      s.Model,
		APIKey:     s.APIKey,
		Timeout:    s.Timeout,
		Metrics:    rec,
	}
}
