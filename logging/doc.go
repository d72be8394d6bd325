// Package logging provides a tiny abstraction over slog so the rest of the
// SDK can depend on a minimal Logger interface while callers plug in any
// structured logger. It also ships a RunLogger with contextual cloning
// helpers (component, run id) and domain specific helpers for tool and
// model call instrumentation.
package logging
