// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration with LOOM_* environment overrides
//   - PromptStore: User-editable assistant prompt templates
package file
