// Package confirm provides the blocking yes/no prompt used when a form is
// about to submit more parameters than the server accepts. The terminal
// implementation is backed by survey; tests and non-interactive callers use
// Static or Func.
package confirm
