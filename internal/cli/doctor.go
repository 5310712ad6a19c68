package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/animus-coder/readmeart/internal/configbuilder"
)

// NewDoctorCmd returns a health-check command validating config and environment.
func NewDoctorCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Validate configuration and report which credentials are set",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config OK. Image providers: %d (primary: %s, secondary: %s)\n",
				len(cfg.Image.Providers), orNone(cfg.Image.Primary), orNone(cfg.Image.Secondary))
			fmt.Fprintf(out, "Budgets: prompt=%d art=%d image=%d, image exhaustion: %s\n",
				cfg.Fallback.PromptBudget, cfg.Fallback.ArtBudget, cfg.Fallback.ImageBudget, cfg.Fallback.ImageExhaustion)
			fmt.Fprintf(out, "Credentials: ADMIN_TOKEN=%s TOGETHER_API_KEY=%s HF_TOKEN=%s GEMINI_API_KEY=%s\n",
				setOrMissing(cfg.Credentials.AdminToken),
				setOrMissing(cfg.Credentials.TogetherAPIKey),
				setOrMissing(cfg.Credentials.HFToken),
				setOrMissing(cfg.Credentials.GeminiAPIKey))

			reg, err := configbuilder.BuildImageRegistry(cfg, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Image backends ready: %s\n", orNone(strings.Join(reg.Names(), ", ")))
			return nil
		},
	}
}

func setOrMissing(v string) string {
	if strings.TrimSpace(v) == "" {
		return "missing"
	}
	return "set"
}

func orNone(v string) string {
	if v == "" {
		return "none"
	}
	return v
}
