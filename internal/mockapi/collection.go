// Package mockapi serves in-memory REST collections
// with the payload shapes consumed by data tables.
package mockapi

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/domonda/go-datatable"
)

// Shape of the data member of GET responses.
type Shape int

const (
	// ListShape responds with {"data":[{"id":...},...]}.
	ListShape Shape = iota
	// MapShape responds with {"data":{"<id>":{...},...}}.
	MapShape
)

type failure struct {
	status int
	body   string
}

// Collection is an in-memory REST collection.
//
//	GET    /     list all records
//	POST   /     create a record from a JSON object
//	DELETE /{id} delete a record
//
// Collection is safe for concurrent use.
type Collection struct {
	shape Shape

	mtx      sync.Mutex
	records  []datatable.Record
	nextID   int
	failures map[string]failure
	requests map[string]int
}

// NewCollection returns a Collection with records.
func NewCollection(shape Shape, records ...datatable.Record) *Collection {
	c := &Collection{
		shape:    shape,
		records:  records,
		nextID:   len(records) + 1,
		failures: make(map[string]failure),
		requests: make(map[string]int),
	}
	for _, rec := range records {
		if n, err := strconv.Atoi(rec.ID); err == nil && n >= c.nextID {
			c.nextID = n + 1
		}
	}
	return c
}

// FailNext makes the next request with method
// respond with status and body.
func (c *Collection) FailNext(method string, status int, body string) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.failures[method] = failure{status: status, body: body}
}

// Records returns a copy of the current records.
func (c *Collection) Records() []datatable.Record {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return append([]datatable.Record(nil), c.records...)
}

// Requests returns the number of received requests with method.
func (c *Collection) Requests(method string) int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.requests[method]
}

func (c *Collection) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.requests[r.Method]++
	if f, ok := c.failures[r.Method]; ok {
		delete(c.failures, r.Method)
		http.Error(w, f.body, f.status)
		return
	}

	id := strings.Trim(r.URL.Path, "/")
	switch {
	case r.Method == http.MethodGet && id == "":
		c.list(w)
	case r.Method == http.MethodPost && id == "":
		c.create(w, r)
	case r.Method == http.MethodDelete && id != "":
		c.delete(w, id)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (c *Collection) list(w http.ResponseWriter) {
	var buf bytes.Buffer
	buf.WriteString(`{"data":`)
	if c.shape == MapShape {
		buf.WriteByte('{')
	} else {
		buf.WriteByte('[')
	}
	for i, rec := range c.records {
		if i > 0 {
			buf.WriteByte(',')
		}
		if c.shape == MapShape {
			key, _ := json.Marshal(rec.ID)
			buf.Write(key)
			buf.WriteByte(':')
			writeObject(&buf, rec.Fields())
		} else {
			writeObject(&buf, withID(rec))
		}
	}
	if c.shape == MapShape {
		buf.WriteByte('}')
	} else {
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	writeJSON(w, http.StatusOK, buf.Bytes())
}

func (c *Collection) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// Decode the object with the field order of the request
	wrapped := append(append([]byte(`{"data":[`), body...), "]}"...)
	records, err := datatable.NormalizePayload(wrapped)
	if err != nil || len(records) != 1 {
		http.Error(w, "body must be a JSON object", http.StatusBadRequest)
		return
	}
	var fields []datatable.Field
	for _, f := range records[0].Fields() {
		if f.Name != datatable.IDField {
			fields = append(fields, f)
		}
	}
	rec := datatable.NewRecord(strconv.Itoa(c.nextID), fields...)
	c.nextID++
	c.records = append(c.records, rec)

	var buf bytes.Buffer
	writeObject(&buf, withID(rec))
	writeJSON(w, http.StatusCreated, buf.Bytes())
}

func (c *Collection) delete(w http.ResponseWriter, id string) {
	for i, rec := range c.records {
		if rec.ID == id {
			c.records = append(c.records[:i], c.records[i+1:]...)
			key, _ := json.Marshal(id)
			writeJSON(w, http.StatusOK, []byte(`{"id":`+string(key)+`}`))
			return
		}
	}
	http.Error(w, "record not found", http.StatusNotFound)
}

func withID(rec datatable.Record) []datatable.Field {
	fields := []datatable.Field{{Name: datatable.IDField, Value: rec.ID}}
	for _, f := range rec.Fields() {
		if f.Name != datatable.IDField {
			fields = append(fields, f)
		}
	}
	return fields
}

func writeObject(buf *bytes.Buffer, fields []datatable.Field) {
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, _ := json.Marshal(f.Name)
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(f.Value)
		if err != nil {
			value = []byte("null")
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
