package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cosguru/fracpropgen/internal/ai"
	"github.com/cosguru/fracpropgen/internal/config"
	"github.com/cosguru/fracpropgen/internal/models"
	"github.com/cosguru/fracpropgen/internal/pkg/apperror"
	"github.com/cosguru/fracpropgen/internal/service"
)

func generateCmd() *cobra.Command {
	var (
		formPath string
		outDir   string
		saveYAML bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a proposal from a YAML form and render it to .docx",
		Long: `Runs the model with the form values and renders the result.
AI_* variables are read from the environment or .env.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := readForm(formPath)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			client := ai.NewClient(ai.Options{
				BaseURL:      cfg.AIBaseURL,
				APIKey:       cfg.AIAPIKey,
				QualityModel: cfg.AIModelQuality,
				FastModel:    cfg.AIModelFast,
				Timeout:      cfg.AITimeout,
			})
			svc := service.NewProposalService(client, nil, nil, nil, nil)

			proposal, err := svc.Generate(cmd.Context(), uuid.Nil, form)
			if err != nil {
				return generateHint(err, cfg.AIBaseURL)
			}

			path, err := renderToDir(svc, *proposal, partyFlags{
				client: form.ClientName,
				exec:   form.ExecutiveName,
				role:   form.ExecutiveRole,
				accent: string(form.AccentColor),
				outDir: outDir,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)

			if saveYAML {
				yamlPath := path[:len(path)-len(".docx")] + ".yaml"
				raw, err := yaml.Marshal(proposal)
				if err != nil {
					return fmt.Errorf("encode proposal: %w", err)
				}
				if err := os.WriteFile(yamlPath, raw, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", yamlPath, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), yamlPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&formPath, "form", "", "Form file (YAML), see \"templates --form\"")
	cmd.Flags().StringVar(&outDir, "out", ".", "Output directory")
	cmd.Flags().BoolVar(&saveYAML, "save-yaml", false, "Also save the generated proposal as YAML for later \"render\"")
	_ = cmd.MarkFlagRequired("form")
	return cmd
}

// generateHint дополняет ошибку модели подсказкой, куда смотреть.
func generateHint(err error, baseURL string) error {
	switch {
	case apperror.IsGenerationFailed(err):
		return fmt.Errorf("%w (model endpoint %s unreachable or rejected the request, check AI_BASE_URL and AI_API_KEY)", err, baseURL)
	case apperror.IsInvalidOutput(err):
		return fmt.Errorf("%w (model %s returned malformed JSON, try again or set AI_MODEL_QUALITY)", err, baseURL)
	default:
		return err
	}
}

func readForm(path string) (models.ProposalFormInput, error) {
	var form models.ProposalFormInput
	raw, err := os.ReadFile(path)
	if err != nil {
		return form, fmt.Errorf("read form: %w", err)
	}
	if err := yaml.Unmarshal(raw, &form); err != nil {
		return form, fmt.Errorf("parse form %s: %w", path, err)
	}
	return form, nil
}
