// Package input provides interactive terminal input utilities.
//
// # Usage
//
// Everything that asks the user something takes a Confirmer, so callers never
// read stdin directly:
//
//	c := input.New(os.Stdin, os.Stdout)
//	ok, err := c.Confirm("Overwrite existing files?", false)
//
// New picks a keyboard-driven menu (bubbletea) when both streams are
// terminals and falls back to a plain "[y/N]" line prompt otherwise, which is
// what pipes and CI get.
//
// # Testing
//
// Fixed answers without prompting:
//
//	var c input.Confirmer = input.Fixed(false) // always "no"
//
// A LineConfirmer can also be driven from a strings.Reader.
//
// # Styling
//
//   - Prompts are displayed in cyan and bold
//   - Hints ([Y/n], key help) are displayed in gray
package input
