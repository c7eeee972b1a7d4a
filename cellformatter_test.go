package datatable

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTryFormattersOrSprint(t *testing.T) {
	ctx := context.Background()
	view := NewStringsView("", [][]string{{"a", "<b>b</b>"}}, "A", "B")

	unsupported := CellFormatterFunc(func(context.Context, View, int, int) (string, bool, error) {
		return "", false, errors.ErrUnsupported
	})
	failing := CellFormatterFunc(func(context.Context, View, int, int) (string, bool, error) {
		return "", false, errors.New("failed")
	})
	brackets := CellFormatterFunc(func(ctx context.Context, view View, row, col int) (string, bool, error) {
		return "[" + view.Cell(row, col).(string) + "]", false, nil
	})

	tests := []struct {
		name       string
		formatters []CellFormatter
		col        int
		wantStr    string
		wantRaw    bool
		wantErr    bool
	}{
		{name: "no formatters", col: 0, wantStr: "a"},
		{name: "nil and unsupported fall back to Sprint", formatters: []CellFormatter{nil, unsupported}, col: 1, wantStr: "<b>b</b>"},
		{name: "first supported wins", formatters: []CellFormatter{unsupported, brackets, SprintCellFormatter(true)}, col: 0, wantStr: "[a]"},
		{name: "raw sprint", formatters: []CellFormatter{SprintCellFormatter(true)}, col: 1, wantStr: "<b>b</b>", wantRaw: true},
		{name: "error stops", formatters: []CellFormatter{failing, SprintCellFormatter(true)}, col: 0, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			str, raw, err := TryFormattersOrSprint(tt.formatters...).FormatCell(ctx, view, 0, tt.col)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantStr, str)
			require.Equal(t, tt.wantRaw, raw)
		})
	}
}

func TestSprintCellFormatter(t *testing.T) {
	ctx := context.Background()
	view := NewStringsView("", [][]string{{"a"}}, "A")

	str, raw, err := SprintCellFormatter(true).FormatCell(ctx, view, 0, 0)
	require.NoError(t, err)
	require.Equal(t, "a", str)
	require.True(t, raw)

	str, _, err = SprintCellFormatter(false).FormatCell(ctx, view, 5, 0)
	require.NoError(t, err)
	require.Empty(t, str, "out of bounds cell is nil")
}
