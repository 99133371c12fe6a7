package driven

// PromptStore provides access to LLM prompt templates.
// Prompt names are the domain.Prompt* constants.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names return an error; known names fall back to the
	// built-in template when no override exists.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}
