package datatable

import (
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func recordIDs(records []Record) []string {
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	return ids
}

func TestNormalizePayload(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantIDs []string
	}{
		{name: "empty list", body: `{"data":[]}`, wantIDs: []string{}},
		{name: "empty object", body: `{"data":{}}`, wantIDs: []string{}},
		{name: "list with ids", body: `{"data":[{"id":"a","name":"Ann"},{"id":7,"name":"Bob"}]}`, wantIDs: []string{"a", "7"}},
		{name: "list without ids", body: `{"data":[{"name":"Ann"},{"name":"Bob"}]}`, wantIDs: []string{"1", "2"}},
		{name: "list with empty ids", body: `{"data":[{"id":""},{"id":null},{"id":"x"}]}`, wantIDs: []string{"1", "2", "x"}},
		{name: "zero and false are ids", body: `{"data":[{"id":5},{"id":7},{"id":0,"name":"zero"},{"id":false}]}`, wantIDs: []string{"5", "7", "0", "false"}},
		{name: "object keeps key order", body: `{"data":{"z":{"name":"Zed"},"a":{"name":"Ann"},"m":{"name":"Max"}}}`, wantIDs: []string{"z", "a", "m"}},
		{name: "key wins over id field", body: `{"data":{"k1":{"id":"other"}}}`, wantIDs: []string{"k1"}},
		{name: "other members ignored", body: `{"meta":{"total":1},"data":[{"id":1}]}`, wantIDs: []string{"1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := NormalizePayload([]byte(tt.body))
			require.NoError(t, err)
			require.Equal(t, tt.wantIDs, recordIDs(records))
		})
	}
}

func TestNormalizePayload_fields(t *testing.T) {
	body := `{"data":[{"name":"Ann","age":32,"price":1.5,"active":true,"note":null,"tags":["a","b"],"address":{"city":"Vienna"}}]}`
	records, err := NormalizePayload([]byte(body))
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]

	names := make([]string, 0)
	for _, f := range rec.Fields() {
		names = append(names, f.Name)
	}
	require.Equal(t, []string{"name", "age", "price", "active", "note", "tags", "address"}, names, "document order")

	require.Equal(t, "1", rec.ID)
	require.Equal(t, "1", rec.String("id"))
	require.Equal(t, "Ann", rec.String("name"))
	require.Equal(t, "32", rec.String("age"))
	require.Equal(t, "1.5", rec.String("price"))
	require.Equal(t, "true", rec.String("active"))
	require.Equal(t, "", rec.String("note"))
	require.Equal(t, "", rec.String("missing"))
	require.Equal(t, `["a","b"]`, rec.String("tags"))
	require.Equal(t, `{"city":"Vienna"}`, rec.String("address"))

	age, ok := rec.Value("age")
	require.True(t, ok)
	require.Equal(t, json.Number("32"), age)
}

func TestNormalizePayload_errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "not JSON", body: `<html>`, wantErr: ErrMalformedPayload},
		{name: "truncated", body: `{"data":[{"id":1}`, wantErr: ErrMalformedPayload},
		{name: "no data", body: `{"items":[]}`, wantErr: ErrMissingData},
		{name: "null data", body: `{"data":null}`, wantErr: ErrMissingData},
		{name: "string data", body: `{"data":"x"}`, wantErr: ErrMalformedPayload},
		{name: "number data", body: `{"data":1}`, wantErr: ErrMalformedPayload},
		{name: "list of scalars", body: `{"data":[1,2]}`, wantErr: ErrMalformedPayload},
		{name: "object of scalars", body: `{"data":{"a":1}}`, wantErr: ErrMalformedPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := NormalizePayload([]byte(tt.body))
			require.Nil(t, records)
			require.ErrorIs(t, err, tt.wantErr)
			var fetchErr *FetchError
			require.True(t, errors.As(err, &fetchErr), "error is a *FetchError")
		})
	}
}
