// Package poll implements the poll-and-render loop behind the monitor and
// watch commands.
//
// A Loop repeatedly runs a step, sleeping a fixed interval between steps,
// until the step reports it is done, the step fails, or the context is
// canceled. There is no retry: a failed fetch is never repeated early.
//
// Monitor follows one build until it reaches a terminal status and stops at
// the first failed fetch. Watcher lists recent builds on every cycle and
// announces when a new build appears at the head of the list; a failed list
// only skips that cycle. Both render through an injected renderer rather
// than writing to the terminal themselves.
package poll
