// Package browser drives a Chrome page as the controlled surface. It
// implements action.Driver (raw mouse, keyboard and wheel events through
// the CDP input domain) and screen.Source (page screenshots through the CDP
// page domain), making a browser tab the screen a computeruse agent
// observes and acts on.
package browser
