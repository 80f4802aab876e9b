package cli

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/ppiankov/chatnow/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration chatnow would run with after applying flags,
environment, config file and defaults. The API key is masked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printConfig(cmd.OutOrStdout(), LoadSettings(viper.GetViper()), viper.ConfigFileUsed())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func printConfig(w io.Writer, s Settings, configFile string) error {
	if configFile == "" {
		configFile = "(none)"
	}
	timeout := "transport default"
	if s.Timeout > 0 {
		timeout = s.Timeout.String()
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Key", "Value"})
	rows := [][]string{
		{"config_file", configFile},
		{"api_key", util.Mask(s.APIKey)},
		{"endpoint", s.Endpoint},
		{"api_version", s.APIVersion},
		{"model", s.Model},
		{"backend", s.Backend},
		{"timeout", timeout},
		{"log_file", orNone(s.LogFile)},
		{"metrics_addr", orNone(s.MetricsAddr)},
		{"export_path", s.ExportPath},
		{"hyperlinks", fmt.Sprint(s.Hyperlinks)},
		{"verbose", fmt.Sprint(s.Verbose)},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
