package bot

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxReplyLen keeps replies under Discord's 2000-character message limit,
// with headroom for the code fence.
const maxReplyLen = 1900

// helpText enumerates every verb with one-line usage.
const helpText = "**Available Commands:**\n" +
	"- `status`: Shows the status of all managed containers.\n" +
	"- `start <name>`: Starts the specified container.\n" +
	"- `stop <name>`: Stops the specified container.\n" +
	"- `restart <name>`: Restarts the specified container.\n" +
	"- `logs <name>`: Fetches the most recent log lines of the specified container.\n" +
	"- `help`: Shows this message.\n"

// Format renders a Result as displayable chat text. It is a pure function:
// identical results always produce identical text.
func Format(res *Result) string {
	switch res.Kind {
	case KindSuccess:
		return formatSuccess(res)
	case KindNotFound:
		msg := fmt.Sprintf("Container '%s' not known. Misspelled?", res.Container)
		if len(res.ValidNames) > 0 {
			msg += fmt.Sprintf(" Known containers: %s.", strings.Join(res.ValidNames, ", "))
		}
		return msg
	case KindRuntimeError:
		return res.Message
	default:
		if res.Quote != "" {
			return res.Message + "\n> " + res.Quote
		}
		return res.Message
	}
}

func formatSuccess(res *Result) string {
	switch res.Verb {
	case VerbHelp:
		return helpText
	case VerbStatus:
		return "```\n" + renderStatusTable(res.Rows) + "\n```"
	case VerbLogs:
		if !res.HasLogs {
			return fmt.Sprintf("Container '%s' has no log output.", res.Container)
		}
		return "```\n" + truncateTail(strings.TrimRight(res.Logs, "\n"), maxReplyLen) + "\n```"
	default:
		return res.Message
	}
}

// renderStatusTable draws an aligned ASCII table, one row per container in
// registry declaration order.
func renderStatusTable(rows []StatusRow) string {
	headers := []string{"Container", "Status", "Address", "Port", "Credential"}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}

	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = []string{row.Name, row.State, row.Address, row.Port, row.Credential}
		for j, cell := range cells[i] {
			if len(cell) > widths[j] {
				widths[j] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRule := func() {
		for _, w := range widths {
			b.WriteString("+")
			b.WriteString(strings.Repeat("-", w+2))
		}
		b.WriteString("+\n")
	}
	writeRow := func(cols []string) {
		for j, col := range cols {
			fmt.Fprintf(&b, "| %-*s ", widths[j], col)
		}
		b.WriteString("|\n")
	}

	writeRule()
	writeRow(headers)
	writeRule()
	for _, row := range cells {
		writeRow(row)
	}
	writeRule()

	return strings.TrimRight(b.String(), "\n")
}

// truncateTail keeps the end of s, which is the part that matters for logs.
// The cut never lands mid-rune.
func truncateTail(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := len(s) - max
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return s[cut:]
}
