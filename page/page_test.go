package page

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testPage() *Page {
	return &Page{
		Title: "Directory",
		Containers: []Container{
			{ID: "usersTable", Classes: []string{"table-container"}},
			{ID: "carsTable", Classes: []string{"table-container", "cars"}},
			{ID: "animalsTable"},
		},
	}
}

func TestPage_Resolve(t *testing.T) {
	p := testPage()

	i, err := p.Resolve("#carsTable")
	require.NoError(t, err)
	require.Equal(t, 1, i)

	i, err = p.Resolve(".cars")
	require.NoError(t, err)
	require.Equal(t, 1, i)

	_, err = p.Resolve("#missing")
	require.ErrorIs(t, err, ErrNoContainer)

	_, err = p.Resolve(".table-container")
	require.ErrorIs(t, err, ErrAmbiguousContainer)

	for _, selector := range []string{"", "#", "usersTable", "div > #x", "#a.b"} {
		_, err = p.Resolve(selector)
		require.ErrorIs(t, err, ErrInvalidSelector, "selector %q", selector)
	}
}

type staticTable struct {
	name string
	html string
	err  error
}

func (t *staticTable) Name() string { return t.name }

func (t *staticTable) Render(_ context.Context, w io.Writer) error {
	if t.err != nil {
		return t.err
	}
	_, err := io.WriteString(w, t.html)
	return err
}

func TestLayout_Mount(t *testing.T) {
	l := NewLayout(testPage())

	require.NoError(t, l.Mount("#usersTable", &staticTable{name: "users"}))
	require.NoError(t, l.Mount(".cars", &staticTable{name: "cars"}))

	err := l.Mount("#carsTable", &staticTable{name: "cars2"})
	require.ErrorIs(t, err, ErrContainerOwned)

	err = l.Mount("#nope", &staticTable{name: "nope"})
	require.ErrorIs(t, err, ErrNoContainer)

	tables := l.Tables()
	require.Len(t, tables, 2)
	require.Equal(t, "users", tables[0].Name())
	require.Equal(t, "cars", tables[1].Name())
}

func TestLayout_WriteHTML(t *testing.T) {
	l := NewLayout(testPage())
	require.NoError(t, l.Mount("#usersTable", &staticTable{name: "users", html: `<table id="users-table"></table>`}))

	var buf strings.Builder
	err := l.WriteHTML(t.Context(), &buf, []Message{{Level: "error", Text: "Fill in the required fields: <Name>"}})
	require.NoError(t, err)
	html := buf.String()

	require.Contains(t, html, "<title>Directory</title>")
	require.Contains(t, html, `<div id="usersTable" class="table-container">`)
	require.Contains(t, html, `<table id="users-table"></table>`)
	require.Contains(t, html, `<div id="animalsTable">`)
	require.Contains(t, html, `<div class="message message-error" role="alert">Fill in the required fields: &lt;Name&gt;</div>`)
	require.Contains(t, html, `dismissModal(modal, "escape")`)
}

func TestLayout_WriteHTML_TableError(t *testing.T) {
	l := NewLayout(testPage())
	renderErr := errors.New("render failed")
	require.NoError(t, l.Mount("#usersTable", &staticTable{name: "users", err: renderErr}))

	err := l.WriteHTML(t.Context(), io.Discard, nil)
	require.ErrorIs(t, err, renderErr)
}
