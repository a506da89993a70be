// Package tmpl is the rendering glue shared by both pipelines: the embedded
// template set and the formatters every template can use.
package tmpl

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"github.com/jshufro/xvm-bridge/lib/errs"
)

//go:embed templates/*.tmpl
var files embed.FS

// Path separators
const (
	SolidityPathSeparator = "_"
	InkPathSeparator      = "::"
)

// Funcs returns the formatters common to every template. sep is used by path.
func Funcs(sep string) template.FuncMap {
	return template.FuncMap{
		"snake":       stringFormatter(Snake),
		"upper_snake": stringFormatter(UpperSnake),
		"upper_camel": stringFormatter(UpperCamel),
		"capitalize":  stringFormatter(Capitalize),
		"path": func(value interface{}) (string, error) {
			return JoinPath(value, sep)
		},
		"debug": func(value interface{}) string {
			return fmt.Sprintf("%#v", value)
		},
	}
}

func stringFormatter(f func(string) string) func(interface{}) (string, error) {
	return func(value interface{}) (string, error) {
		s, ok := value.(string)
		if !ok {
			return "", errs.Templatef("string value expected, got %T", value)
		}
		return f(s), nil
	}
}

// JoinPath joins path segments with sep.
func JoinPath(value interface{}, sep string) (string, error) {
	switch segments := value.(type) {
	case []string:
		return strings.Join(segments, sep), nil
	case []interface{}:
		out := make([]string, 0, len(segments))
		for _, v := range segments {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return strings.Join(out, sep), nil
	}
	return "", errs.Templatef("array of path segments expected, got %T", value)
}

// Load parses the named template files into one set. Templates are
// addressed by their file name without the .tmpl extension.
func Load(funcs template.FuncMap, names ...string) (*template.Template, error) {
	set := template.New("").Funcs(funcs).Option("missingkey=error")
	for _, name := range names {
		body, err := files.ReadFile("templates/" + name + ".tmpl")
		if err != nil {
			return nil, errors.WithStack(&errs.TemplateError{Detail: "unknown template " + name, Cause: err})
		}
		if _, err := set.New(name).Parse(string(body)); err != nil {
			return nil, errors.WithStack(&errs.TemplateError{Detail: "unable to parse template " + name, Cause: err})
		}
	}
	return set, nil
}

// Render executes one template of the set into memory. Nothing is returned
// unless the whole template succeeded.
func Render(set *template.Template, name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, name, data); err != nil {
		if raisedByFormatter(err) {
			return "", err
		}
		return "", errors.WithStack(&errs.TemplateError{Detail: "unable to render " + name, Cause: err})
	}
	return buf.String(), nil
}

// Formatter errors already carry their kind and are passed through as they are
func raisedByFormatter(err error) bool {
	var (
		templateErr *errs.TemplateError
		metadataErr *errs.MetadataError
		cyclicErr   *errs.CyclicTypeError
	)
	return errors.As(err, &templateErr) || errors.As(err, &metadataErr) || errors.As(err, &cyclicErr)
}

// Finish trims trailing blank lines and terminates the output with exactly one newline.
func Finish(s string) string {
	return strings.TrimRight(s, "\n\t ") + "\n"
}
