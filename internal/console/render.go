package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/aanand-mishra/student-portal/internal/dashboard"
)

func joinTabs(tabs []dashboard.Tab) string {
	names := make([]string, len(tabs))
	for i, t := range tabs {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func renderTabs(w io.Writer, tabs []dashboard.Tab, active dashboard.Tab) {
	parts := make([]string, len(tabs))
	for i, t := range tabs {
		if t == active {
			parts[i] = "[" + string(t) + "]"
		} else {
			parts[i] = string(t)
		}
	}
	fmt.Fprintf(w, "Tabs: %s\n", strings.Join(parts, " "))
}

// banner prints the loading, error, and notice lines of a tab.
func banner(w io.Writer, loading bool, errMsg, notice string) {
	if loading {
		fmt.Fprintln(w, "Loading...")
	}
	if errMsg != "" {
		fmt.Fprintf(w, "Error: %s\n", errMsg)
	}
	if notice != "" {
		fmt.Fprintf(w, "%s\n", notice)
	}
}

// table prints rows numbered from 1; the numbers are what row commands
// take.
func table(w io.Writer, empty string, header []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "#\t%s\n", strings.Join(header, "\t"))
	for i, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\n", i+1, strings.Join(r, "\t"))
	}
	tw.Flush()
}

// pick resolves a row reference: a 1-based row number or an id.
func pick[T any](items []T, ref string, id func(T) string) (T, error) {
	var zero T
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(items) {
			return items[n-1], nil
		}
		return zero, fmt.Errorf("%w: %s", errNoRow, ref)
	}
	for _, it := range items {
		if id(it) == ref {
			return it, nil
		}
	}
	return zero, fmt.Errorf("%w: %s", errNoRow, ref)
}

func oneArg(args []string, usage string) (string, error) {
	if len(args) != 1 {
		return "", usageError("usage: " + usage)
	}
	return args[0], nil
}
