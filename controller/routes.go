package controller

import (
	"net/url"

	"github.com/domonda/go-datatable/restclient"
)

// Routes returns the URL paths the rendered controls
// of a table post to.
type Routes struct {
	// Base is the path prefix of all routes of the table.
	Base string
}

// DefaultRoutes returns the routes of a table below /tables/{name}.
func DefaultRoutes(name string) Routes {
	return Routes{Base: "/tables/" + url.PathEscape(name)}
}

func (r Routes) Reload() string       { return r.Base + "/reload" }
func (r Routes) OpenModal() string    { return r.Base + "/modal" }
func (r Routes) DismissModal() string { return r.Base + "/modal/dismiss" }
func (r Routes) KeyPress() string     { return r.Base + "/modal/key" }
func (r Routes) CreateRecord() string { return r.Base + "/records" }
func (r Routes) ExportCSV() string    { return r.Base + "/export.csv" }

// DeleteRecord returns the path for deleting the record with id.
func (r Routes) DeleteRecord(id string) string {
	return restclient.RecordURL(r.Base+"/records", id) + "/delete"
}
