// Package editor contains the client-side editing core: the in-memory edit
// buffer, the auto-save sync controller that decides when to persist it, and
// the HTTP client the controller persists through. The controller is a state
// machine (idle, pending, saved, failed) driven by a trailing-edge debounce
// timer, a periodic timer and explicit save/publish actions.
package editor
