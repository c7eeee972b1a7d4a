package datatable

import "strings"

// Option is a bit mask of formatting options.
type Option int

const (
	// OptionAddHeaderRow adds the column titles as first row.
	OptionAddHeaderRow Option = 1 << iota
	// OptionStripMarkup converts raw formatted cells to plain text.
	OptionStripMarkup
)

func (o Option) Has(option Option) bool {
	return o&option != 0
}

func (o Option) String() string {
	var b strings.Builder
	if o.Has(OptionAddHeaderRow) {
		b.WriteString("AddHeaderRow")
	}
	if o.Has(OptionStripMarkup) {
		if b.Len() > 0 {
			b.WriteString("|")
		}
		b.WriteString("StripMarkup")
	}
	if b.Len() == 0 {
		return "no Option"
	}
	return b.String()
}

func HasOption(options []Option, option Option) bool {
	for _, o := range options {
		if o.Has(option) {
			return true
		}
	}
	return false
}
