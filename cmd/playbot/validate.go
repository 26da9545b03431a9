package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	corecmd "github.com/m3rciful/playbot/core/cmd"
	"github.com/m3rciful/playbot/internal/config"
)

// validationResult is the --json output of validate.
type validationResult struct {
	Valid   bool   `json:"valid"`
	Config  string `json:"config,omitempty"`
	Mode    string `json:"mode,omitempty"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

func newValidateCmd() *cobra.Command {
	var (
		configPath string
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration without starting the bot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res := validate(configPath)
			if err := printValidation(cmd.OutOrStdout(), res, asJSON); err != nil {
				return err
			}
			if !res.Valid {
				return fmt.Errorf("invalid configuration: %s", res.Error)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the YAML config")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func validate(configPath string) validationResult {
	path := corecmd.ResolveConfigPath(corecmd.Options{
		ConfigPath:        configPath,
		ConfigEnvVar:      configEnvVar,
		DefaultConfigPath: defaultConfigPath,
	})
	res := validationResult{Config: path}
	if err := corecmd.LoadEnv(); err != nil {
		res.Error = err.Error()
		return res
	}
	cfg, err := config.Load(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Valid = true
	res.Mode = cfg.Telegram.RunMode
	res.Content = contentSource(cfg)
	return res
}

func contentSource(cfg *config.Config) string {
	switch {
	case cfg.Content.FromDB:
		return "db"
	case cfg.Content.File != "":
		return "file:" + cfg.Content.File
	default:
		return "builtin"
	}
}

func printValidation(w io.Writer, res validationResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	if !res.Valid {
		_, err := fmt.Fprintf(w, "✗ %s: %s\n", res.Config, res.Error)
		return err
	}
	_, err := fmt.Fprintf(w, "✓ configuration OK (mode=%s, content=%s)\n", res.Mode, res.Content)
	return err
}
