package agent

import (
	"fmt"
	"strings"

	gormadapter "github.com/tigerroll/mapchat/internal/adapter/database/gorm"
	"github.com/tigerroll/mapchat/internal/domain/entity"
)

const sqlPromptTemplate = `You translate questions about a person's location history into SQLite queries.

The database has the following schema:

%s
Times are unix seconds. Use datetime(start_time, 'unixepoch') to render them.
A visit's place details are in places, joined on place_id; use a LEFT JOIN when
details may be missing.

%sReply with exactly one SQLite SELECT statement and nothing else. Do not explain it.

Question: %s
`

const answerPromptTemplate = `You answer questions about a person's location history.

Question: %s

The following SQL query was run to answer it:

%s

It returned these rows:

%s
Answer the question in a few friendly sentences using only these rows. If there
are no rows, say that the location history has no matching data. Do not mention
SQL or the database.
`

// sqlPrompt builds the prompt for the SQL generation call.
func sqlPrompt(schema string, history []entity.ChatTurn, question string) string {
	var conv strings.Builder
	if len(history) > 0 {
		conv.WriteString("Recent conversation, oldest first:\n\n")
		for _, turn := range history {
			fmt.Fprintf(&conv, "%s: %s\n", turn.Role, turn.Content)
			if turn.SQLQuery != nil && *turn.SQLQuery != "" {
				fmt.Fprintf(&conv, "(query used: %s)\n", *turn.SQLQuery)
			}
		}
		conv.WriteString("\n")
	}
	return fmt.Sprintf(sqlPromptTemplate, schema, conv.String(), question)
}

// answerPrompt builds the prompt for the narration call.
func answerPrompt(question, query string, rs *gormadapter.ResultSet) string {
	return fmt.Sprintf(answerPromptTemplate, question, query, FormatResult(rs))
}

// FormatResult renders rows as RESULT/KEY/VAL blocks, which models read
// more reliably than a table.
func FormatResult(rs *gormadapter.ResultSet) string {
	if rs == nil || len(rs.Rows) == 0 {
		return "(no rows)\n"
	}
	var b strings.Builder
	for i, row := range rs.Rows {
		fmt.Fprintf(&b, "RESULT: %d\n", i+1)
		for j, col := range rs.Columns {
			fmt.Fprintf(&b, "KEY: %s, VAL: %s\n", col, formatValue(row[j]))
		}
		b.WriteString("\n")
	}
	if rs.Truncated {
		fmt.Fprintf(&b, "(only the first %d rows are shown)\n", len(rs.Rows))
	}
	return b.String()
}

func formatValue(v interface{}) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprint(v)
}
