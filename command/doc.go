// Package command provides fluent builders for add, remove, update, and
// restore commands, including the target-selection strategy state machine
// of the remove family.
package command
