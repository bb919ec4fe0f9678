package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"artclub/internal/client"
	"artclub/internal/domain/models"
	"artclub/internal/lib/validate"
	"artclub/internal/view"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func table(out io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, bold(strings.Join(header, "\t")))
	return tw
}

func row(tw *tabwriter.Writer, cols ...any) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(tw, strings.Join(parts, "\t"))
}

func footer[T any](out io.Writer, p view.Page[T]) {
	if p.TotalPages > 1 {
		fmt.Fprintln(out, faint(fmt.Sprintf("page %d of %d, %d total", p.Page, p.TotalPages, p.Total)))
		return
	}
	fmt.Fprintln(out, faint(fmt.Sprintf("%d total", p.Total)))
}

func approval(s models.ApprovalStatus) string {
	switch s {
	case models.StatusApproved:
		return green(string(s))
	case models.StatusRejected:
		return red(string(s))
	}
	return yellow(string(s))
}

func yesNo(b bool) string {
	if b {
		return green("yes")
	}
	return faint("no")
}

func date(d models.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("2006-01-02")
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// describe ошибка для человека: поля формы построчно, тип ошибки API
func describe(err error) string {
	var verr *validate.Error
	if errors.As(err, &verr) {
		return red("invalid input") + "\n" + fields(verr.Fields)
	}

	if apiErr, ok := client.AsAPIError(err); ok {
		msg := red(string(apiErr.Kind))
		if apiErr.Status != 0 {
			msg += fmt.Sprintf(" (%d)", apiErr.Status)
		}
		if apiErr.Message != "" {
			msg += ": " + apiErr.Message
		}
		if len(apiErr.Fields) > 0 {
			msg += "\n" + fields(apiErr.Fields)
		}
		return msg
	}

	return red("error") + ": " + err.Error()
}

func fields(m map[string][]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: %s\n", k, strings.Join(m[k], " "))
	}
	return strings.TrimRight(b.String(), "\n")
}
