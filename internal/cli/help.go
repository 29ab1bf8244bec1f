package cli

import (
	"fmt"
	"io"
)

const helpText = `habitlens - habit tracking with insights

Usage:
  habitlens [flags] <command> [args]

Commands:
  serve                              Run the API server, bots and scheduler (default)
  habit add <name> [description]     Create a habit
  habit list                         List habits with streaks
  habit show <id>                    Show one habit
  habit delete <id>                  Delete a habit and its entries
  entry add <habit-id> [photo] [note]
                                     Record today's check-in
  entry list <habit-id>              List a habit's entries
  entry delete <id>                  Delete an entry
  insights <habit-id> [section]      Full analysis for one habit
  dashboard                          Cross-habit insights
  stats                              Dashboard statistics
  suggest                            Suggest new habits
  tools                              List tools
  tool <name> [json-args]            Run a tool
  import <blob.json>                 Import a mobile app export
  watch <blob.json>                  Import now and on every change
  tui                                Interactive dashboard
  hash-password                      Print a bcrypt hash for security.admin_password_hash
  version                            Show version
  help                               Show this help

Flags:
  --config <path>    Config file (default <data>/habitlens.yaml)
  --data <dir>       Data directory
  --format <f>       Output format: text, json or yaml (default text)

Insight sections:
  consistency, progress, patterns, predictions, trends, strength,
  achievements, motivation, suggestions
`

// PrintHelp writes the command overview
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, helpText)
}
