package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cosguru/fracpropgen/internal/models"
	"github.com/cosguru/fracpropgen/internal/pkg/apperror"
	"github.com/cosguru/fracpropgen/internal/templates"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTemplates_List(t *testing.T) {
	out, err := execute(t, "templates")
	require.NoError(t, err)

	for _, id := range templates.IDs() {
		assert.Contains(t, out, id)
	}
	assert.Contains(t, out, templates.DefaultID+" (default)")
}

func TestTemplates_Form(t *testing.T) {
	out, err := execute(t, "templates", "--form", templates.DefaultID)
	require.NoError(t, err)

	var form models.ProposalFormInput
	require.NoError(t, yaml.Unmarshal([]byte(out), &form))
	assert.Equal(t, models.DefaultFormInput(templates.Find(templates.DefaultID)), form)
}

func TestTemplates_FormUnknown(t *testing.T) {
	_, err := execute(t, "templates", "--form", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown template")
}

const proposalYAML = `
title: Fractional CMO Engagement
executiveSummary: Summary
problemStatement: Problem
proposedSolution: [Audit, Plan]
timeline: 3 months
investment: $10k / month
about: Twenty years in B2B marketing.
nextSteps: Sign the agreement.
termsAndConditions: [Net 30]
ninetyDayPlan: [Month 1]
measuringSuccess: [Pipeline]
clientResponsibilities: [Access]
exclusions: []
`

func TestRender_YAML(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "proposal.yaml")
	require.NoError(t, os.WriteFile(in, []byte(proposalYAML), 0o644))
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "render", "--in", in, "--client", "Acme Inc.", "--exec", "Jane Doe", "--accent", "teal", "--out", outDir)
	require.NoError(t, err)

	path := strings.TrimSpace(out)
	assert.Equal(t, outDir, filepath.Dir(path))
	assert.Contains(t, filepath.Base(path), "Acme")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

const fullProposalJSON = `{
  "title": "Plan",
  "executiveSummary": "Summary",
  "problemStatement": "Problem",
  "proposedSolution": ["Audit"],
  "timeline": "3 months",
  "investment": "$10k",
  "about": "About",
  "nextSteps": "Sign",
  "termsAndConditions": ["Net 30"],
  "ninetyDayPlan": ["Month 1"],
  "measuringSuccess": ["Pipeline"],
  "clientResponsibilities": ["Access"],
  "exclusions": []
}`

func TestRender_JSON(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "proposal.json")
	require.NoError(t, os.WriteFile(in, []byte(fullProposalJSON), 0o644))

	_, err := execute(t, "render", "--in", in, "--client", "Acme", "--out", dir)
	require.NoError(t, err)
}

func TestRender_IncompleteProposal(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "proposal.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"title":"Plan","exclusions":[]}`), 0o644))

	_, err := execute(t, "render", "--in", in, "--client", "Acme", "--out", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ninetyDayPlan")
	_, statErr := os.Stat(filepath.Join(dir, "Proposal for Acme.docx"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRender_Errors(t *testing.T) {
	dir := t.TempDir()
	noTitle := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(noTitle, []byte("about: x\n"), 0o644))
	full := filepath.Join(dir, "full.json")
	require.NoError(t, os.WriteFile(full, []byte(fullProposalJSON), 0o644))

	tests := []struct {
		name string
		args []string
	}{
		{name: "нет файла", args: []string{"render", "--in", filepath.Join(dir, "missing.yaml")}},
		{name: "нет заголовка", args: []string{"render", "--in", noTitle, "--out", dir}},
		{name: "неизвестный цвет", args: []string{"render", "--in", full, "--accent", "plaid", "--out", dir}},
		{name: "без --in", args: []string{"render"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestGenerate_RequiresForm(t *testing.T) {
	_, err := execute(t, "generate")
	assert.Error(t, err)
}

func TestGenerate_InvalidForm(t *testing.T) {
	dir := t.TempDir()
	form := filepath.Join(dir, "form.yaml")
	require.NoError(t, os.WriteFile(form, []byte("executive_name: [unterminated\n"), 0o644))

	_, err := execute(t, "generate", "--form", form)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse form")
}

func TestGenerate_UpstreamFailureHint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"unavailable"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()
	t.Setenv("APP_ENV", "development")
	t.Setenv("AI_BASE_URL", srv.URL)
	t.Setenv("AI_API_KEY", "test-key")

	dir := t.TempDir()
	form := filepath.Join(dir, "form.yaml")
	raw, err := yaml.Marshal(models.DefaultFormInput(templates.Find(templates.DefaultID)))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(form, raw, 0o644))

	_, err = execute(t, "generate", "--form", form, "--out", dir)
	require.Error(t, err)
	assert.True(t, apperror.IsGenerationFailed(err))
	assert.Contains(t, err.Error(), "AI_BASE_URL")
	assert.Contains(t, err.Error(), srv.URL)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGenerateHint(t *testing.T) {
	invalid := apperror.New(apperror.ErrCodeInvalidOutput, "bad")
	assert.Contains(t, generateHint(invalid, "http://m").Error(), "malformed JSON")

	plain := errors.New("boom")
	assert.Same(t, plain, generateHint(plain, "http://m"))
}
