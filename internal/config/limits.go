package config

// Resource size limits enforced by service-level validation.
const (
	MaxDocumentTitleLength = 255
	MaxFolderNameLength    = 255
	MaxContentBytes        = 5 << 20 // serialized document content
	MaxPromptLength        = 8000    // AI action prompt
	MaxAssetBytes          = 10 << 20
)
