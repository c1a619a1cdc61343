package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	var (
		configPath string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "config [path]",
		Short: "Show the configuration each tool runs with",
		Long:  "Resolve .rubylint.yaml against the built-in defaults and print the merged configuration of every tool.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			root, err := projectDir(path)
			if err != nil {
				return err
			}
			settings, err := loadSettings(root, configPath)
			if err != nil {
				return err
			}

			svc := newLintService(newLogger(cmd.ErrOrStderr(), false), nil)
			svc.Configure(settings)
			configs := svc.EffectiveConfigs()

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(configs)
			}

			data, err := yaml.Marshal(configs)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Settings file (defaults to .rubylint.yaml in path)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
