// Package screen provides screenshot capture over a pluggable Source. The
// Capture type encodes raw PNG frames to base64 and attaches capture
// metadata; capture failures always propagate to the caller, they are never
// swallowed into an empty image.
package screen
