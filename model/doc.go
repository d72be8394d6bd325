// Package model defines the boundary to the remote decision-maker: the
// normalized request/response shapes, the tool declaration schema and the
// Model interface the agent loop drives. Provider adapters live in the
// anthropic and openai subpackages; ScriptedModel is an in-memory fake for
// tests and examples.
package model
