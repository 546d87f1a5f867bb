package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable_Alignment(t *testing.T) {
	m := NewNonInteractiveManager(false)

	out := m.RenderTable(
		[]string{"ID", "NAME", "DEFAULT"},
		[][]string{
			{"prod", "Production", "*"},
			{"staging", "Staging", ""},
		},
	)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[0], "NAME")

	// Columns align: NAME starts at the same offset in every row.
	offset := strings.Index(lines[0], "NAME")
	assert.Equal(t, offset, strings.Index(lines[1], "Production"))
	assert.Equal(t, offset, strings.Index(lines[2], "Staging"))
}

func TestRenderTable_WideCellGrowsColumn(t *testing.T) {
	m := NewNonInteractiveManager(false)

	out := m.RenderTable(
		[]string{"ID"},
		[][]string{{"a-much-longer-identifier"}},
	)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "a-much-longer-identifier", strings.TrimRight(lines[1], " "))
}

func TestNonInteractive_ConfirmAlwaysYes(t *testing.T) {
	m := NewNonInteractiveManager(false)
	ok, err := m.PromptConfirm("delete queue \"orders\"?")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNonInteractive_EnvironmentFormRequiresInput(t *testing.T) {
	m := NewNonInteractiveManager(false)

	_, err := m.PromptEnvironment(EnvironmentInput{ID: "prod"})
	assert.Error(t, err)

	input, err := m.PromptEnvironment(EnvironmentInput{ID: "prod", Token: "tok"})
	require.NoError(t, err)
	assert.Equal(t, "prod", input.ID)
}

func TestSpinner_NoopSafeWithoutStart(t *testing.T) {
	m := NewNonInteractiveManager(false)
	s := m.ShowSpinner("working")
	s.UpdateText("still working")
	s.Stop()
}

func TestConfirmModel_DefaultsToNo(t *testing.T) {
	model := newConfirmModel("proceed?")
	assert.Equal(t, 1, model.cursor)
	assert.False(t, model.confirmed)
}
