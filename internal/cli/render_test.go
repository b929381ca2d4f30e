package cli

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/runar-labs/runar-sqlite/sqlite"
)

func TestColumnsOf(t *testing.T) {
	rows := []sqlite.Row{
		{"name": sqlite.Text("alice"), "id": sqlite.Integer(1)},
		{"email": sqlite.Text("alice@example.com"), "id": sqlite.Integer(1)},
	}

	assert.Equal(t, []string{"email", "id", "name"}, columnsOf(rows))
}

func TestPad(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
	}{
		{name: "ascii", in: "alice", width: 10},
		{name: "accented", in: "café", width: 10},
		{name: "multibyte", in: "日本語", width: 10},
		{name: "already wide enough", in: "alice", width: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pad(tt.in, tt.width)
			want := tt.width
			if w := lipgloss.Width(tt.in); w > want {
				want = w
			}
			assert.Equal(t, want, lipgloss.Width(got))
		})
	}
}
