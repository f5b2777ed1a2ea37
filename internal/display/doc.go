// Package display renders command results for the terminal.
//
// Everything a command reports to the user (created files, next steps,
// slow tests, validation findings, runtime history) goes through a Printer
// bound to the command's output writer. Colors come from fatih/color and are
// enabled only when that writer is a terminal, so tests and pipes see plain
// text.
//
//	p := display.NewPrinter(cmd.OutOrStdout())
//	p.Created("behavior file", path)
//	p.Steps("Next steps:", steps...)
//
// Multi-line warnings use Warning:
//
//	display.Warning{
//	    Title:      "Config will not be auto-discovered",
//	    Files:      []string{"docs/tdd/tdd.config.json"},
//	    Suggestion: "Move it to agent/ or the project root",
//	}.Display(p)
package display
