// Package snapconf manages configuration files: it preprocesses source
// files with a line-oriented directive language, applies substitution
// tables, and links the results into place.
package snapconf

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/shibukawa/snapconf/expand"
)

// PreprocessedSuffix is appended to a source path to form the path the
// preprocessed output is written to.
const PreprocessedSuffix = ".preprocessed"

// Config is the snapconf configuration file. Per-file options left unset
// inherit the defaults.
type Config struct {
	DefaultPrefix             string            `yaml:"default_prefix"`
	DefaultEscape             *Escape           `yaml:"default_escape"`
	DefaultRemoveInstructions *bool             `yaml:"default_remove_instructions"`
	Files                     []FileConfig      `yaml:"files"`
	Substitutions             map[string]string `yaml:"substitutions"`
}

// Escape is the pair of markers that delimit a substitution key inside a
// source file.
type Escape struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// FileConfig configures a single managed file. Pointer fields distinguish
// "unset, inherit the default" from an explicit value.
type FileConfig struct {
	Source             string  `yaml:"source"`
	Target             string  `yaml:"target"`
	Prefix             *string `yaml:"prefix"`
	Escape             *Escape `yaml:"escape"`
	RemoveInstructions *bool   `yaml:"remove_instructions"`
}

// LoadConfig reads, parses and normalizes the configuration at path. A .env
// file next to the working directory is loaded into the environment first
// so that config paths and substitutions can reference its variables.
func LoadConfig(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigLoad, err)
	}
	var config Config
	if err := yaml.Unmarshal(content, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	config.supplement()
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// loadEnvFiles loads a .env file from the current directory if present.
func loadEnvFiles() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigLoad, err)
	}
	return nil
}

// supplement fills unset per-file options with the configured defaults.
// Explicit values always win. Remove-instructions defaults to true.
func (c *Config) supplement() {
	removeInstructions := true
	if c.DefaultRemoveInstructions != nil {
		removeInstructions = *c.DefaultRemoveInstructions
	}
	for i := range c.Files {
		fc := &c.Files[i]
		if fc.Prefix == nil && c.DefaultPrefix != "" {
			prefix := c.DefaultPrefix
			fc.Prefix = &prefix
		}
		if fc.Escape == nil && c.DefaultEscape != nil {
			escape := *c.DefaultEscape
			fc.Escape = &escape
		}
		if fc.RemoveInstructions == nil {
			remove := removeInstructions
			fc.RemoveInstructions = &remove
		}
	}
}

func (c *Config) validate() error {
	for i := range c.Files {
		fc := &c.Files[i]
		if fc.Source == "" {
			return fmt.Errorf("%w: files[%d] has no source", ErrConfigValidation, i)
		}
		if fc.Target == "" {
			return fmt.Errorf("%w: files[%d] (%s) has no target", ErrConfigValidation, i, fc.Source)
		}
		if fc.Escape != nil && (fc.Escape.Start == "" || fc.Escape.End == "") {
			return fmt.Errorf("%w: files[%d] (%s) has an incomplete escape pair", ErrConfigValidation, i, fc.Source)
		}
		if fc.Prefix != nil && *fc.Prefix == "" {
			return fmt.Errorf("%w: files[%d] (%s) has an empty prefix", ErrConfigValidation, i, fc.Source)
		}
	}
	return nil
}

// Regexp builds the pattern matching one escaped substitution key. The
// match keeps the character before the start marker so that a backslash can
// suppress substitution, and captures the inner key text.
func (e *Escape) Regexp() *regexp.Regexp {
	start := regexp.QuoteMeta(e.Start)
	end := regexp.QuoteMeta(e.End)
	return regexp.MustCompile(`([^\\])` + start + `(.*?[^\\])` + end)
}

// SourcePath resolves the source path against the configuration root.
// Environment variables in the path are expanded; absolute paths ignore the
// root.
func (f *FileConfig) SourcePath(root string) string {
	return joinRoot(root, f.Source)
}

// TargetPath resolves the target path like SourcePath.
func (f *FileConfig) TargetPath(root string) string {
	return joinRoot(root, f.Target)
}

// PreprocessedPath is the sibling path the preprocessed output is written
// to before linking.
func (f *FileConfig) PreprocessedPath(root string) string {
	return f.SourcePath(root) + PreprocessedSuffix
}

func joinRoot(root, path string) string {
	path = expand.Path(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
