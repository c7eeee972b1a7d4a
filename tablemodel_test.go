package datatable

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func usersConfig() *TableConfig {
	return &TableConfig{
		Parent: "#usersTable",
		APIURL: "https://example.com/api/users",
		Columns: []Column{
			{
				Title: "Name",
				Value: FieldValue("name"),
				Input: SingleInput(InputDef{Type: InputText}),
			},
		},
	}
}

func TestBuildTableModel(t *testing.T) {
	ctx := context.Background()
	cfg := usersConfig()
	records := []Record{NewRecord("1", Field{Name: "name", Value: "Ann"})}

	model, err := BuildTableModel(ctx, cfg, records)
	require.NoError(t, err)
	require.Equal(t, "usersTable", model.Title())
	require.Equal(t, []string{"№", "Name", "Actions"}, model.Columns())
	require.Equal(t, 1, model.NumRows())
	require.Equal(t, 1, model.Cell(0, 0))
	require.Equal(t, Cell{Text: "Ann"}, model.Cell(0, 1))
	require.Equal(t, DeleteAction{RecordID: "1"}, model.Cell(0, 2))
	require.Nil(t, model.Cell(1, 0))
	require.Nil(t, model.Cell(0, 3))
	require.Equal(t, []int{1}, model.DataColumns())

	rows, err := FormatViewAsStrings(ctx, model, CellValueFormatter(), OptionAddHeaderRow)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"№", "Name", "Actions"}, {"1", "Ann", "Delete"}}, rows)

	again, err := BuildTableModel(ctx, cfg, records)
	require.NoError(t, err)
	require.Equal(t, model, again, "rendering is idempotent")
}

func TestBuildTableModel_emptyAndError(t *testing.T) {
	ctx := context.Background()
	cfg := usersConfig()

	empty, err := BuildTableModel(ctx, cfg, []Record{})
	require.NoError(t, err)
	require.True(t, empty.HasBody())
	require.Equal(t, 0, empty.NumRows())
	require.Equal(t, []string{"№", "Name", "Actions"}, empty.Columns())

	noBody, err := BuildTableModel(ctx, cfg, nil)
	require.NoError(t, err)
	require.False(t, noBody.HasBody())
	require.Equal(t, []string{"№", "Name", "Actions"}, noBody.Columns())
}

func TestBuildTableModel_derivedColumns(t *testing.T) {
	ctx := context.Background()
	cfg := &TableConfig{
		Parent: "#products",
		APIURL: "https://example.com/api/products",
		Columns: []Column{
			{Title: "Title", Value: FieldValue("title")},
			{
				Title: "Price",
				Value: Derived(func(r Record) string {
					return r.String("price") + " " + r.String("currency")
				}),
			},
			{Title: "Color", Value: MustTemplate(`{{colorLabel .color}}`)},
		},
	}
	records := []Record{
		NewRecord("k1",
			Field{Name: "title", Value: "<b>Chair</b>"},
			Field{Name: "price", Value: "12.5"},
			Field{Name: "currency", Value: "EUR"},
			Field{Name: "color", Value: "#ff0000"},
		),
	}
	model, err := BuildTableModel(ctx, cfg, records)
	require.NoError(t, err)
	require.Equal(t, []string{"№", "Title", "Price", "Color", "Actions"}, model.Columns())
	require.Equal(t, Cell{Text: "<b>Chair</b>", Raw: false}, model.Cell(0, 1), "field values are text")
	require.Equal(t, Cell{Text: "12.5 EUR", Raw: true}, model.Cell(0, 2))
	require.Equal(t, Cell{Text: `<span style="color: #ff0000">#ff0000</span>`, Raw: true}, model.Cell(0, 3))
	require.Equal(t, DeleteAction{RecordID: "k1"}, model.Cell(0, 4))
}

func TestRenderCell(t *testing.T) {
	ctx := context.Background()
	rec := NewRecord("1",
		Field{Name: "name", Value: "Ann"},
		Field{Name: "avatar", Value: "a.png"},
		Field{Name: "note", Value: nil},
	)
	avatar := Derived(func(r Record) string {
		return `<img src="` + r.String("avatar") + `" onerror="alert(1)">`
	})

	tests := []struct {
		name      string
		col       Column
		sanitizer Sanitizer
		want      Cell
	}{
		{name: "field", col: Column{Title: "Name", Value: FieldValue("name")}, want: Cell{Text: "Ann"}},
		{name: "missing field", col: Column{Title: "X", Value: FieldValue("x")}, want: Cell{}},
		{name: "null field", col: Column{Title: "Note", Value: FieldValue("note")}, want: Cell{}},
		{name: "id field", col: Column{Title: "ID", Value: FieldValue("id")}, want: Cell{Text: "1"}},
		{name: "derived trusted", col: Column{Title: "Avatar", Value: avatar}, want: Cell{Text: `<img src="a.png" onerror="alert(1)">`, Raw: true}},
		{name: "derived ugc", col: Column{Title: "Avatar", Value: avatar}, sanitizer: UGCSanitizer(), want: Cell{Text: `<img src="a.png">`, Raw: true}},
		{name: "derived strict", col: Column{Title: "Avatar", Value: Derived(func(Record) string { return "<b>bold</b>" })}, sanitizer: StrictSanitizer(), want: Cell{Text: "bold", Raw: true}},
		{name: "derived strict keeps entities", col: Column{Title: "Note", Value: Derived(func(Record) string { return "&lt;script&gt;alert(1)&lt;/script&gt;" })}, sanitizer: StrictSanitizer(), want: Cell{Text: "&lt;script&gt;alert(1)&lt;/script&gt;", Raw: true}},
		{name: "template escapes values", col: Column{Title: "T", Value: MustTemplate(`<i>{{.name}}</i>`)}, want: Cell{Text: "<i>Ann</i>", Raw: true}},
		{name: "template default", col: Column{Title: "T", Value: MustTemplate(`{{default .note "-"}}`)}, want: Cell{Text: "-", Raw: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderCell(ctx, &tt.col, rec, tt.sanitizer)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	t.Run("template escapes markup in values", func(t *testing.T) {
		col := Column{Title: "T", Value: MustTemplate(`<i>{{.name}}</i>`)}
		got, err := RenderCell(ctx, &col, NewRecord("1", Field{Name: "name", Value: "<script>"}), nil)
		require.NoError(t, err)
		require.Equal(t, "<i>&lt;script&gt;</i>", got.Text)
	})

	t.Run("no value", func(t *testing.T) {
		_, err := RenderCell(ctx, &Column{Title: "Empty"}, rec, nil)
		require.Error(t, err)
	})

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := RenderCell(canceled, &Column{Title: "Name", Value: FieldValue("name")}, rec, nil)
		require.True(t, errors.Is(err, context.Canceled))
	})
}
