package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptBarcodeReader asks a vision LLM to transcribe barcode digits.
	// This prompt has no format placeholders.
	PromptBarcodeReader = "barcode_reader"
)

// PromptStoreAware is an optional interface for components that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the component uses its built-in default prompt.
	SetPromptStore(store PromptStore)
}
