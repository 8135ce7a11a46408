package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/shibukawa/snapconf"
	"github.com/shibukawa/snapconf/linker"
	"github.com/shibukawa/snapconf/processor"
	"github.com/shibukawa/snapconf/prompt"
)

// Sentinel errors
var (
	ErrFilesFailed  = errors.New("some files could not be processed")
	ErrConfigExists = errors.New("configuration file already exists")
)

func loadConfig(ctx *Context) (*snapconf.Config, string, error) {
	config, err := snapconf.LoadConfig(ctx.Config)
	if err != nil {
		return nil, "", err
	}
	return config, filepath.Dir(ctx.Config), nil
}

// ApplyCmd represents the apply command
type ApplyCmd struct{}

// Run preprocesses every configured file and links the results into place.
func (cmd *ApplyCmd) Run(ctx *Context) error {
	config, root, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := preprocessFiles(ctx, config, root); err != nil {
		return err
	}
	return linkFiles(ctx, config, root)
}

// PreprocessCmd represents the preprocess command
type PreprocessCmd struct{}

// Run preprocesses every configured file without linking.
func (cmd *PreprocessCmd) Run(ctx *Context) error {
	config, root, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	return preprocessFiles(ctx, config, root)
}

// LinkCmd represents the link command
type LinkCmd struct{}

// Run links previously preprocessed files to their targets.
func (cmd *LinkCmd) Run(ctx *Context) error {
	config, root, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	return linkFiles(ctx, config, root)
}

// ValidateCmd represents the validate command
type ValidateCmd struct{}

// Run checks the directive structure of every configured file without
// prompting or writing anything.
func (cmd *ValidateCmd) Run(ctx *Context) error {
	config, root, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	proc := processor.New(config, root, prompt.Auto())
	failed := 0
	for i := range config.Files {
		fc := &config.Files[i]
		if err := proc.ValidateFile(fc); err != nil {
			failed++
			if !ctx.Quiet {
				color.Red("%v", err)
			}
			continue
		}
		if ctx.Verbose {
			color.Green("%s ok", fc.SourcePath(root))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrFilesFailed, failed, len(config.Files))
	}
	return nil
}

func preprocessFiles(ctx *Context, config *snapconf.Config, root string) error {
	proc := processor.New(config, root, prompt.Auto())
	failed := 0
	for i := range config.Files {
		fc := &config.Files[i]
		if ctx.Verbose {
			color.Blue("Preprocessing %s", fc.SourcePath(root))
		}
		outPath, err := proc.ProcessFile(fc)
		if err != nil {
			failed++
			if !ctx.Quiet {
				color.Red("%v", err)
			}
			continue
		}
		if ctx.Verbose {
			color.Green("Wrote %s", outPath)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrFilesFailed, failed, len(config.Files))
	}
	return nil
}

func linkFiles(ctx *Context, config *snapconf.Config, root string) error {
	failed := 0
	for i := range config.Files {
		fc := &config.Files[i]
		source := fc.PreprocessedPath(root)
		target := fc.TargetPath(root)
		if ctx.Verbose {
			color.Blue("Linking %s -> %s", target, source)
		}
		if err := linker.Link(source, target); err != nil {
			failed++
			if !ctx.Quiet {
				color.Red("%v", err)
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrFilesFailed, failed, len(config.Files))
	}
	return nil
}

// InitCmd represents the init command
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`
}

const starterConfig = `# snapconf configuration
default_prefix: "#:"
default_escape:
  start: "{%"
  end: "%}"
default_remove_instructions: true

substitutions:
  EMAIL: you@example.com

files:
  - source: bashrc
    target: ${HOME}/.bashrc
`

// Run writes a starter configuration file.
func (cmd *InitCmd) Run(ctx *Context) error {
	if _, err := os.Stat(ctx.Config); err == nil && !cmd.Force {
		return fmt.Errorf("%w: %s", ErrConfigExists, ctx.Config)
	}
	if err := os.WriteFile(ctx.Config, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ctx.Config, err)
	}
	if !ctx.Quiet {
		color.Green("Created %s", ctx.Config)
	}
	return nil
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run prints the version.
func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Printf("snapconf v%s\n", snapconf.Version)
	return nil
}
