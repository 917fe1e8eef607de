// Package report writes the results of guard checks as plain text, JSON or a
// standalone HTML page.
package report
