package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cosguru/fracpropgen/internal/models"
	"github.com/cosguru/fracpropgen/internal/templates"
)

func templatesCmd() *cobra.Command {
	var formFor string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List persona templates",
		Long: `Lists persona templates. With --form prints a starter YAML form
for the given template that can be passed to "generate --form".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if formFor != "" {
				return writeForm(cmd.OutOrStdout(), formFor)
			}
			return listTemplates(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&formFor, "form", "", "Print a starter form for the template ID")
	return cmd
}

func listTemplates(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, t := range templates.All() {
		marker := ""
		if t.ID == templates.DefaultID {
			marker = " (default)"
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%s\n", t.ID, marker, t.Name, t.Description)
	}
	return tw.Flush()
}

func writeForm(w io.Writer, templateID string) error {
	if !templates.Exists(templateID) {
		return fmt.Errorf("unknown template %q, available: %v", templateID, templates.IDs())
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(models.DefaultFormInput(templates.Find(templateID))); err != nil {
		return fmt.Errorf("encode form: %w", err)
	}
	return enc.Close()
}
