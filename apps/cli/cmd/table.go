package cmd

import (
	"io"

	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/abdul-hamid-achik/mvctest/packages/mvc"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// newTable creates a table with the standard styling, rendering to w.
func newTable(w io.Writer, headers ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)

	row := make(table.Row, len(headers))
	for i, h := range headers {
		row[i] = text.FgHiCyan.Sprint(h)
	}
	t.AppendHeader(row)
	return t
}

// buildApplication builds cfg without writing responses anywhere.
func buildApplication(cfg *config.ApplicationConfig) (*mvc.Application, error) {
	app, err := mvc.Init(cfg, mvc.WithOutput(io.Discard))
	if err != nil {
		return nil, &exitError{code: ExitApplicationError, err: err}
	}
	return app, nil
}
