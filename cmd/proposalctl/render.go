package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cosguru/fracpropgen/internal/ai"
	"github.com/cosguru/fracpropgen/internal/models"
	"github.com/cosguru/fracpropgen/internal/service"
)

type partyFlags struct {
	client string
	exec   string
	role   string
	accent string
	outDir string
}

func renderCmd() *cobra.Command {
	var (
		in      string
		parties partyFlags
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a saved proposal (JSON or YAML) to .docx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proposal, err := readProposal(in)
			if err != nil {
				return err
			}
			path, err := renderToDir(service.NewProposalService(nil, nil, nil, nil, nil), proposal, parties)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "Proposal file (.json or .yaml)")
	cmd.Flags().StringVar(&parties.client, "client", "", "Client name for the signature block and file name")
	cmd.Flags().StringVar(&parties.exec, "exec", "", "Executive name")
	cmd.Flags().StringVar(&parties.role, "role", "", "Executive role")
	cmd.Flags().StringVar(&parties.accent, "accent", string(models.DefaultAccentColor), "Accent color token")
	cmd.Flags().StringVar(&parties.outDir, "out", ".", "Output directory")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

// readProposal читает предложение. JSON разбирается тем же yaml.v3.
// Файл сверяется со схемой ответа модели до разбора в структуру.
func readProposal(path string) (models.GeneratedProposal, error) {
	var p models.GeneratedProposal
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read proposal: %w", err)
	}
	var obj map[string]any
	if err := yaml.Unmarshal(raw, &obj); err != nil {
		return p, fmt.Errorf("parse proposal %s: %w", path, err)
	}
	if invalid := ai.ProposalSchema.InvalidFields(obj); len(invalid) > 0 {
		return p, fmt.Errorf("proposal %s: %s", path, ai.IncompleteProposalMessage(invalid))
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("parse proposal %s: %w", path, err)
	}
	return p, nil
}

func renderToDir(svc *service.ProposalService, p models.GeneratedProposal, parties partyFlags) (string, error) {
	artifact, err := svc.Render(service.ExportRequest{
		Proposal:      p,
		ClientName:    parties.client,
		ExecutiveName: parties.exec,
		ExecutiveRole: parties.role,
		AccentColor:   models.AccentColor(parties.accent),
	})
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(parties.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(parties.outDir, artifact.FileName)
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
