package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/ppiankov/chatnow/internal/answer"
	"github.com/ppiankov/chatnow/internal/util"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s := LoadSettings(viper.New())

	assert.Equal(t, answer.DefaultEndpoint, s.Endpoint)
	assert.Equal(t, answer.DefaultAPIVersion, s.APIVersion)
	assert.Equal(t, answer.DefaultModel, s.Model)
	assert.Equal(t, answer.BackendREST, s.Backend)
	assert.Equal(t, defaultExportPath, s.ExportPath)
	assert.True(t, s.Hyperlinks)
	assert.Zero(t, s.Timeout)
	assert.Empty(t, s.APIKey)
}

func TestLoadSettings_Values(t *testing.T) {
	v := viper.New()
	v.Set("api_key", "k")
	v.Set("model", "gemini-test")
	v.Set("backend", "sdk")
	v.Set("timeout", "30s")
	v.Set("hyperlinks", false)

	s := LoadSettings(v)
	assert.Equal(t, "k", s.APIKey)
	assert.Equal(t, "gemini-test", s.Model)
	assert.Equal(t, answer.BackendSDK, s.Backend)
	assert.Equal(t, 30*time.Second, s.Timeout)
	assert.False(t, s.Hyperlinks)
}

func TestBindEnv(t *testing.T) {
	t.Run("gemini fallback", func(t *testing.T) {
		t.Setenv("CHATNOW_API_KEY", "")
		t.Setenv("GEMINI_API_KEY", "g-key")
		v := viper.New()
		bindEnv(v)
		assert.Equal(t, "g-key", LoadSettings(v).APIKey)
	})

	t.Run("chatnow wins", func(t *testing.T) {
		t.Setenv("CHATNOW_API_KEY", "c-key")
		t.Setenv("GEMINI_API_KEY", "g-key")
		v := viper.New()
		bindEnv(v)
		assert.Equal(t, "c-key", LoadSettings(v).APIKey)
	})

	t.Run("prefixed keys", func(t *testing.T) {
		t.Setenv("CHATNOW_MODEL", "gemini-env")
		t.Setenv("CHATNOW_EXPORT", "out.html")
		v := viper.New()
		bindEnv(v)
		s := LoadSettings(v)
		assert.Equal(t, "gemini-env", s.Model)
		assert.Equal(t, "out.html", s.ExportPath)
	})
}

func TestSettings_Validate(t *testing.T) {
	valid := Settings{APIKey: "k", Backend: answer.BackendREST}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Settings)
		is     error
	}{
		{"missing key", func(s *Settings) { s.APIKey = "" }, answer.ErrMissingAPIKey},
		{"unknown backend", func(s *Settings) { s.Backend = "grpc" }, answer.ErrUnknownBackend},
		{"negative timeout", func(s *Settings) { s.Timeout = -time.Second }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.Equal(t, util.ExitInvalidInput, util.CodeFor(err))
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestSettings_AnswerConfig(t *testing.T) {
	s := Settings{APIKey: "k", Backend: "rest", Model: "m", Endpoint: "e", APIVersion: "v1beta", Timeout: time.Second}
	cfg := s.AnswerConfig(nil)

	assert.Equal(t, answer.Config{
		Backend:    "rest",
		Endpoint:   "e",
		APIVersion: "v1beta",
		Model:      "m",
		APIKey:     "k",
		Timeout:    time.Second,
	}, cfg)
}

func TestPrecedence_FlagOverEnvOverDefault(t *testing.T) {
	t.Setenv("CHATNOW_MODEL", "env-model")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("model", answer.DefaultModel, "")
	fs.String("backend", answer.BackendREST, "")

	v := viper.New()
	bindFlags(v, fs)
	bindEnv(v)

	s := LoadSettings(v)
	assert.Equal(t, "env-model", s.Model)
	assert.Equal(t, answer.BackendREST, s.Backend)

	require.NoError(t, fs.Parse([]string{"--model", "flag-model"}))
	assert.Equal(t, "flag-model", LoadSettings(v).Model)
}

func TestFlagErrorsAreInvalidInput(t *testing.T) {
	err := rootCmd.FlagErrorFunc()(rootCmd, errors.New("unknown flag: --nope"))
	require.Error(t, err)
	assert.Equal(t, util.ExitInvalidInput, util.CodeFor(err))
	assert.EqualError(t, err, "unknown flag: --nope")
}
