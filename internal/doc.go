// Package internal contains the packages behind the buttonkit CLI and
// preview server. The public rendering API lives in pkg/button and
// pkg/theme; nothing here is needed to render a button.
//
// # Package Organization
//
//   - config: Viper-backed configuration with validation
//   - errors: coded KitError values, error collection and HTTP mapping
//   - logging: context-first structured logger on log/slog
//   - stories: YAML story catalogue and the reloadable Store
//   - audit: structural checks on rendered button markup
//   - watcher: debounced fsnotify watcher for the story file
//   - server: preview gallery, render endpoint and live reload
//   - version: build identity for the version command and /health
//
// # Data Flow
//
// The watcher reports changes to the story file, the Store reloads and
// emits one event per added, updated or removed story, and the server
// turns those events into reload messages for connected browsers. The
// check command and the audit tests render every story and hand the
// markup to the auditor.
package internal
