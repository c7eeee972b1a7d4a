package datatable

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
)

// NormalizePayload decodes the body of a REST collection response
// into records with a non-empty ID.
//
// The body must be a JSON object with a data member that is either
//   - a list of objects: the ID of every record is the id field
//     of the object if it is not empty, else the 1-based list
//     position as string; the list order is kept, or
//   - an object of objects: the ID of every record is its key
//     and the key order of the document is kept.
//
// Any other shape results in a *FetchError.
func NormalizePayload(body []byte) ([]Record, error) {
	records, err := normalizePayload(body)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	return records, nil
}

func normalizePayload(body []byte) ([]Record, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	err := json.Unmarshal(body, &envelope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, ErrMissingData
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	switch tok {
	case json.Delim('['):
		return decodeRecordList(dec)
	case json.Delim('{'):
		return decodeRecordMap(dec)
	}
	return nil, fmt.Errorf("%w: data must be a list or an object, got %v", ErrMalformedPayload, tok)
}

func decodeRecordList(dec *json.Decoder) (records []Record, err error) {
	records = []Record{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed(err)
		}
		if tok == json.Delim(']') {
			return records, nil
		}
		if tok != json.Delim('{') {
			return nil, fmt.Errorf("%w: list element %d is not an object", ErrMalformedPayload, len(records)+1)
		}
		fields, err := decodeObjectFields(dec)
		if err != nil {
			return nil, err
		}
		rec := Record{fields: fields}
		if id, ok := rec.Value(IDField); ok && !isMissingID(id) {
			rec.ID = ValueString(id)
		} else {
			rec.ID = strconv.Itoa(len(records) + 1)
		}
		records = append(records, rec)
	}
}

func decodeRecordMap(dec *json.Decoder) (records []Record, err error) {
	records = []Record{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed(err)
		}
		if tok == json.Delim('}') {
			return records, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected object key, got %v", ErrMalformedPayload, tok)
		}
		tok, err = dec.Token()
		if err != nil {
			return nil, malformed(err)
		}
		if tok != json.Delim('{') {
			return nil, fmt.Errorf("%w: value of key %q is not an object", ErrMalformedPayload, key)
		}
		fields, err := decodeObjectFields(dec)
		if err != nil {
			return nil, err
		}
		records = append(records, Record{ID: key, fields: fields})
	}
}

// decodeObjectFields reads the members of an object
// whose opening delimiter has already been consumed.
func decodeObjectFields(dec *json.Decoder) (fields []Field, err error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed(err)
		}
		if tok == json.Delim('}') {
			return fields, nil
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected object key, got %v", ErrMalformedPayload, tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: name, Value: value})
	}
}

// decodeValue reads the next complete value.
// Nested objects are returned as map[string]any
// and arrays as []any.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, malformed(err)
	}
	return valueFromToken(dec, tok)
}

func valueFromToken(dec *json.Decoder, tok any) (any, error) {
	switch tok {
	case json.Delim('{'):
		fields, err := decodeObjectFields(dec)
		if err != nil {
			return nil, err
		}
		m := make(map[string]any, len(fields))
		for _, f := range fields {
			m[f.Name] = f.Value
		}
		return m, nil
	case json.Delim('['):
		list := []any{}
		for {
			tok, err := dec.Token()
			if err != nil {
				return nil, malformed(err)
			}
			if tok == json.Delim(']') {
				return list, nil
			}
			v, err := valueFromToken(dec, tok)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
	case json.Delim('}'), json.Delim(']'):
		return nil, fmt.Errorf("%w: unexpected %v", ErrMalformedPayload, tok)
	}
	return tok, nil
}

func malformed(err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: %w", ErrMalformedPayload, err)
}
