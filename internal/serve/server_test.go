package serve

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/domonda/go-datatable"
	"github.com/domonda/go-datatable/controller"
	"github.com/domonda/go-datatable/internal/metrics"
	"github.com/domonda/go-datatable/internal/mockapi"
	"github.com/domonda/go-datatable/page"
	"github.com/domonda/go-datatable/restclient"
)

type testEnv struct {
	coll   *mockapi.Collection
	table  *controller.DataTable
	server *Server
	ts     *httptest.Server
	client *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	coll := mockapi.NewCollection(mockapi.MapShape,
		datatable.NewRecord("1", datatable.Field{Name: "name", Value: "Ann"}),
	)
	api := httptest.NewServer(coll)
	t.Cleanup(api.Close)

	collector := metrics.NewCollector()
	flash := NewFlash()
	table, err := controller.New(
		datatable.TableConfig{
			Name:   "users",
			Parent: "#usersTable",
			APIURL: api.URL,
			Columns: []datatable.Column{
				{Title: "Name", Value: datatable.FieldValue("name"), Input: datatable.SingleInput(datatable.InputDef{})},
			},
		},
		restclient.New(restclient.WithObserver(collector)),
		controller.WithNotifier(flash),
	)
	require.NoError(t, err)

	layout := page.NewLayout(&page.Page{Title: "Test", Containers: []page.Container{{ID: "usersTable"}}})
	require.NoError(t, layout.Mount("#usersTable", table))

	server, err := NewServer(layout, flash, collector, nil, ServeConfig{})
	require.NoError(t, err)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	return &testEnv{
		coll:   coll,
		table:  table,
		server: server,
		ts:     ts,
		client: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
	}
}

func (e *testEnv) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := e.client.Get(e.ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func (e *testEnv) post(t *testing.T, path string, form url.Values) {
	t.Helper()
	resp, err := e.client.PostForm(e.ts.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func TestServer_Page(t *testing.T) {
	e := newTestEnv(t)

	status, body := e.get(t, "/")
	require.Equal(t, http.StatusOK, status)
	require.NotContains(t, body, "<tbody>", "not loaded yet")

	require.NoError(t, e.server.LoadTables(t.Context()))
	status, body = e.get(t, "/")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, `<div id="usersTable">`)
	require.Contains(t, body, "<td>Ann</td>")

	status, _ = e.get(t, "/unknown")
	require.Equal(t, http.StatusNotFound, status)
	status, _ = e.get(t, "/tables/unknown")
	require.Equal(t, http.StatusNotFound, status)

	status, body = e.get(t, "/tables/users")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, `<table id='users-table' class='data-table'>`)
}

func TestServer_AddRecord(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.server.LoadTables(t.Context()))

	e.post(t, "/tables/users/modal", nil)
	_, body := e.get(t, "/")
	require.Contains(t, body, `class="modal"`)

	e.post(t, "/tables/users/records", url.Values{"name": {"  "}})
	_, body = e.get(t, "/")
	require.Contains(t, body, "Fill in the required fields: name")
	require.Contains(t, body, `class="modal"`, "modal stays open")
	require.Equal(t, 0, e.coll.Requests(http.MethodPost))

	e.post(t, "/tables/users/records", url.Values{"name": {"Bob"}})
	_, body = e.get(t, "/")
	require.Contains(t, body, controller.MsgRecordAdded)
	require.Contains(t, body, "<td>Bob</td>")
	require.NotContains(t, body, `class="modal"`)

	_, body = e.get(t, "/")
	require.NotContains(t, body, controller.MsgRecordAdded, "flash messages are shown once")
}

func TestServer_DismissModal(t *testing.T) {
	e := newTestEnv(t)

	e.post(t, "/tables/users/modal", nil)
	require.True(t, e.table.Modal().IsOpen())
	e.post(t, "/tables/users/modal/dismiss", url.Values{"reason": {"backdrop"}})
	require.False(t, e.table.Modal().IsOpen())

	e.post(t, "/tables/users/modal", nil)
	e.post(t, "/tables/users/modal/key", url.Values{"key": {"Escape"}})
	require.False(t, e.table.Modal().IsOpen())

	resp, err := e.client.PostForm(e.ts.URL+"/tables/users/modal/dismiss", url.Values{"reason": {"swipe"}})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_DeleteRecord(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.server.LoadTables(t.Context()))

	e.coll.FailNext(http.MethodDelete, http.StatusInternalServerError, "locked")
	e.post(t, "/tables/users/records/1/delete", nil)
	_, body := e.get(t, "/")
	require.Contains(t, body, controller.MsgDeleteFailed)
	require.Contains(t, body, "<td>Ann</td>")

	e.post(t, "/tables/users/records/1/delete", nil)
	_, body = e.get(t, "/")
	require.NotContains(t, body, "<td>Ann</td>")
	require.Empty(t, e.coll.Records())
}

func TestServer_ExportCSV(t *testing.T) {
	e := newTestEnv(t)

	status, _ := e.get(t, "/tables/users/export.csv")
	require.Equal(t, http.StatusConflict, status)

	require.NoError(t, e.server.LoadTables(t.Context()))
	resp, err := e.client.Get(e.ts.URL + "/tables/users/export.csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, `attachment; filename="users.csv"`, resp.Header.Get("Content-Disposition"))
	require.Equal(t, "№;Name\r\n1;Ann\r\n", string(body))
}

func TestServer_HealthAndMetrics(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.server.LoadTables(t.Context()))

	status, body := e.get(t, "/health")
	require.Equal(t, http.StatusOK, status)
	var health struct {
		Status string
		Tables map[string]struct{ State string }
	}
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "Rendered", health.Tables["users"].State)

	status, body = e.get(t, "/metrics")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, `datatable_api_requests_total{op="fetch",status="200"} 1`)
	// The logging middleware records after the response was written
	require.Eventually(t, func() bool {
		_, body := e.get(t, "/metrics")
		return strings.Contains(body, `datatable_http_requests_total{method="GET",route="GET /health",status_code="200"} 1`)
	}, time.Second, 10*time.Millisecond)
}

func TestServer_RequestID(t *testing.T) {
	e := newTestEnv(t)

	resp, err := e.client.Get(e.ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	generated := resp.Header.Get(RequestIDHeader)
	require.Len(t, generated, 36)

	const id = "0b8e8d3a-5f4c-4a51-9c5e-6b1b2c3d4e5f"
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, e.ts.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, id)
	resp, err = e.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, id, resp.Header.Get(RequestIDHeader))

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	resp, err = e.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.NotEqual(t, "not-a-uuid", resp.Header.Get(RequestIDHeader))
	require.False(t, strings.Contains(resp.Header.Get(RequestIDHeader), "not"))
}

func TestFlash(t *testing.T) {
	f := NewFlash()
	for i := range MaxFlashMessages + 2 {
		f.Notify(t.Context(), controller.Notification{Level: controller.LevelError, Message: string(rune('a' + i))})
	}
	messages := f.Take()
	require.Len(t, messages, MaxFlashMessages)
	require.Equal(t, page.Message{Level: "error", Text: "c"}, messages[0])
	require.Empty(t, f.Take())
}
