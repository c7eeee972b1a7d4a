package datatable

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// TemplateFuncs returns the functions available
// in the templates of TemplateValue columns:
//
//	age        "3 years 1 month" since a birthday
//	colorLabel span showing a color value in its color
//	default    the second argument if the first is empty
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"age": func(birthday any) string {
			return Age(ValueString(birthday), time.Now())
		},
		"colorLabel": func(color any) template.HTML {
			return ColorLabel(ValueString(color))
		},
		"default": func(value, fallback any) any {
			if ValueString(value) == "" {
				return fallback
			}
			return value
		},
	}
}

// Age returns the full years and months between birthday and now
// like "32 years 1 month". An empty string is returned
// if birthday can't be parsed.
func Age(birthday string, now time.Time) string {
	birthDate, err := NewStringParser().ParseTime(birthday)
	if err != nil {
		return ""
	}
	years := now.Year() - birthDate.Year()
	months := int(now.Month()) - int(birthDate.Month())
	if months < 0 {
		years--
		months += 12
	}
	return fmt.Sprintf("%d %s %d %s", years, plural(years, "year"), months, plural(months, "month"))
}

// plural uses the singular for numbers ending in 1 except 11.
func plural(n int, singular string) string {
	if n%10 == 1 && n%100 != 11 {
		return singular
	}
	return singular + "s"
}

var colorLabelTemplate = template.Must(template.New("colorLabel").Parse(
	`<span style="color: {{.}}">{{.}}</span>`,
))

// ColorLabel returns a span element showing color as text in that color.
func ColorLabel(color string) template.HTML {
	var buf bytes.Buffer
	if err := colorLabelTemplate.Execute(&buf, color); err != nil {
		return ""
	}
	return template.HTML(buf.String())
}
