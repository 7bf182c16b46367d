package types

// MergeConfig holds settings for the merge stage.
type MergeConfig struct {
	// Prefix is the output filename prefix (default "merged").
	Prefix string `json:"prefix" yaml:"prefix"`

	// OutputDir is the directory the merged file is saved into.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Concurrency is the number of inputs parsed at once. Values below 2
	// keep the strictly sequential fold.
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// Open hands the saved file to the platform opener after writing.
	Open bool `json:"open" yaml:"open"`
}

// EngineConfig holds settings for the PDF engine.
type EngineConfig struct {
	// Strict enables strict PDF validation instead of the relaxed default.
	Strict bool `json:"strict" yaml:"strict"`

	// IgnoreEncryption opens encrypted files with empty passwords.
	IgnoreEncryption bool `json:"ignore_encryption" yaml:"ignore_encryption"`
}

// HistoryConfig holds settings for the merge history ledger.
type HistoryConfig struct {
	// Enabled controls whether merge runs are recorded.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Dir is the directory holding history.db.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default number of runs listed (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all stage configurations.
type Config struct {
	Merge   MergeConfig   `json:"merge" yaml:"merge"`
	Engine  EngineConfig  `json:"engine" yaml:"engine"`
	History HistoryConfig `json:"history" yaml:"history"`
}
