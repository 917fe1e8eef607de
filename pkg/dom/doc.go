// Package dom models the read-only slice of a browser document that submit
// guards inspect: forms, their descendant input-like elements, and the state
// (checked, selected options, name) that decides what a submission carries.
//
// Documents are snapshots. They can be parsed from HTML, assembled by hand for
// tests, or captured from a live browser DOM by the wasm command.
package dom
