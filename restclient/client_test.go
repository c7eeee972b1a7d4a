package restclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/domonda/go-datatable"
	"github.com/domonda/go-datatable/internal/mockapi"
)

type observation struct {
	op     string
	status int
	failed bool
}

type recordingObserver struct {
	mtx          sync.Mutex
	observations []observation
}

func (o *recordingObserver) ObserveRequest(op string, statusCode int, duration time.Duration, err error) {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	o.observations = append(o.observations, observation{op: op, status: statusCode, failed: err != nil})
}

func TestClient_Fetch(t *testing.T) {
	ctx := context.Background()
	coll := mockapi.NewCollection(mockapi.MapShape,
		datatable.NewRecord("k2", datatable.Field{Name: "name", Value: "Bob"}),
		datatable.NewRecord("k1", datatable.Field{Name: "name", Value: "Ann"}),
	)
	server := httptest.NewServer(coll)
	defer server.Close()

	observer := new(recordingObserver)
	client := New(WithObserver(observer))

	records, err := client.Fetch(ctx, server.URL)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "k2", records[0].ID)
	require.Equal(t, "Bob", records[0].String("name"))
	require.Equal(t, "k1", records[1].ID)

	coll.FailNext(http.MethodGet, http.StatusServiceUnavailable, "down")
	records, err = client.Fetch(ctx, server.URL)
	require.Nil(t, records)
	var fetchErr *datatable.FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, http.StatusServiceUnavailable, fetchErr.StatusCode)
	require.Equal(t, server.URL, fetchErr.URL)

	require.Equal(t, []observation{
		{op: OpFetch, status: http.StatusOK},
		{op: OpFetch, status: http.StatusServiceUnavailable},
	}, observer.observations)
}

func TestClient_Fetch_malformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":"nope"}`))
	}))
	defer server.Close()

	_, err := New().Fetch(context.Background(), server.URL)
	require.ErrorIs(t, err, datatable.ErrMalformedPayload)
	var fetchErr *datatable.FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, server.URL, fetchErr.URL)
}

func TestClient_Fetch_unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := New().Fetch(context.Background(), url)
	var fetchErr *datatable.FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Zero(t, fetchErr.StatusCode)
}

func TestClient_Create(t *testing.T) {
	ctx := context.Background()
	var (
		gotBody        string
		gotContentType string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"9"}`))
	}))
	defer server.Close()

	resp, err := New().Create(ctx, server.URL, []datatable.FormValue{
		{Name: "title", Value: "Chair"},
		{Name: "price", Value: "12,5", Numeric: true},
		{Name: "currency", Value: "€"},
	})
	require.NoError(t, err)
	require.Equal(t, `{"id":"9"}`, string(resp))
	require.Equal(t, "application/json", gotContentType)
	require.Equal(t, `{"title":"Chair","price":12.5,"currency":"€"}`, gotBody)
}

func TestClient_EncodeRecord(t *testing.T) {
	client := New()
	tests := []struct {
		name   string
		record []datatable.FormValue
		want   string
	}{
		{name: "empty", record: nil, want: `{}`},
		{name: "text", record: []datatable.FormValue{{Name: "name", Value: `Ann "A"`}}, want: `{"name":"Ann \"A\""}`},
		{name: "number", record: []datatable.FormValue{{Name: "price", Value: "28", Numeric: true}}, want: `{"price":28}`},
		{name: "unparsable number", record: []datatable.FormValue{{Name: "price", Value: "abc", Numeric: true}}, want: `{"price":0}`},
		{name: "NaN number", record: []datatable.FormValue{{Name: "price", Value: "NaN", Numeric: true}}, want: `{"price":0}`},
		{name: "infinite number", record: []datatable.FormValue{{Name: "price", Value: "Inf", Numeric: true}}, want: `{"price":0}`},
		{name: "negative infinity", record: []datatable.FormValue{{Name: "price", Value: "-infinity", Numeric: true}}, want: `{"price":0}`},
		{name: "empty number", record: []datatable.FormValue{{Name: "price", Value: "", Numeric: true}}, want: `{"price":""}`},
		{name: "numeric looking text", record: []datatable.FormValue{{Name: "zip", Value: "01234"}}, want: `{"zip":"01234"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.EncodeRecord(tt.record)
			require.NoError(t, err)
			require.Equal(t, tt.want, string(got))
		})
	}
}

func TestClient_Create_rejected(t *testing.T) {
	coll := mockapi.NewCollection(mockapi.ListShape)
	server := httptest.NewServer(coll)
	defer server.Close()

	coll.FailNext(http.MethodPost, http.StatusUnprocessableEntity, "title is taken")
	_, err := New().Create(context.Background(), server.URL, []datatable.FormValue{{Name: "title", Value: "x"}})
	var mutationErr *datatable.MutationError
	require.True(t, errors.As(err, &mutationErr))
	require.Equal(t, OpCreate, mutationErr.Op)
	require.Equal(t, http.StatusUnprocessableEntity, mutationErr.StatusCode)
	require.Equal(t, "title is taken", mutationErr.Body)
	require.Contains(t, err.Error(), "title is taken")
	require.Empty(t, coll.Records())
}

func TestClient_Delete(t *testing.T) {
	ctx := context.Background()
	coll := mockapi.NewCollection(mockapi.ListShape,
		datatable.NewRecord("1"),
		datatable.NewRecord("a b"),
	)
	server := httptest.NewServer(coll)
	defer server.Close()
	client := New()

	require.NoError(t, client.Delete(ctx, server.URL, "a b"))
	require.Len(t, coll.Records(), 1)

	err := client.Delete(ctx, server.URL, "missing")
	var mutationErr *datatable.MutationError
	require.True(t, errors.As(err, &mutationErr))
	require.Equal(t, http.StatusNotFound, mutationErr.StatusCode)
	require.Equal(t, server.URL+"/missing", mutationErr.URL)

	err = client.Delete(ctx, server.URL, "")
	require.ErrorIs(t, err, datatable.ErrMissingID)
	require.Equal(t, 2, coll.Requests(http.MethodDelete), "no request for empty id")
}

func TestRecordURL(t *testing.T) {
	require.Equal(t, "https://example.com/api/users/7", RecordURL("https://example.com/api/users", "7"))
	require.Equal(t, "https://example.com/api/users/7", RecordURL("https://example.com/api/users/", "7"))
	require.Equal(t, "https://example.com/api/users/a%2Fb", RecordURL("https://example.com/api/users", "a/b"))
}
