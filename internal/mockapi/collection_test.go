package mockapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/domonda/go-datatable"
)

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestCollection(t *testing.T) {
	coll := NewCollection(ListShape, datatable.NewRecord("1", datatable.Field{Name: "name", Value: "Ann"}))
	server := httptest.NewServer(coll)
	defer server.Close()

	status, body := get(t, server.URL)
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"data":[{"id":"1","name":"Ann"}]}`, body)

	resp, err := http.Post(server.URL, "application/json", strings.NewReader(`{"name":"Bob","age":3}`))
	require.NoError(t, err)
	created, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.JSONEq(t, `{"id":"2","name":"Bob","age":3}`, string(created))

	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/1", nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	records := coll.Records()
	require.Len(t, records, 1)
	require.Equal(t, "2", records[0].ID)
	require.Equal(t, 1, coll.Requests(http.MethodDelete))

	coll.FailNext(http.MethodGet, http.StatusInternalServerError, "boom")
	status, body = get(t, server.URL)
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "boom\n", body)
	status, _ = get(t, server.URL)
	require.Equal(t, http.StatusOK, status, "failure only once")
}

func TestCollection_mapShape(t *testing.T) {
	coll := NewCollection(MapShape,
		datatable.NewRecord("b", datatable.Field{Name: "name", Value: "Bob"}),
		datatable.NewRecord("a", datatable.Field{Name: "name", Value: "Ann"}),
	)
	server := httptest.NewServer(coll)
	defer server.Close()

	_, body := get(t, server.URL)
	require.Equal(t, `{"data":{"b":{"name":"Bob"},"a":{"name":"Ann"}}}`, body)
}
