package processor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/snapconf"
	"github.com/shibukawa/snapconf/directive"
)

func ptr[T any](v T) *T { return &v }

// staticPrompter answers every question the same way.
type staticPrompter struct {
	keep     bool
	selected int
}

func (p staticPrompter) Confirm(string) (bool, error) { return p.keep, nil }

func (p staticPrompter) Select(string, []string) (int, error) { return p.selected, nil }

func newFileConfig() *snapconf.FileConfig {
	return &snapconf.FileConfig{
		Source:             "bashrc",
		Target:             "/tmp/.bashrc",
		Prefix:             ptr("#:"),
		RemoveInstructions: ptr(true),
	}
}

func TestRenderConditional(t *testing.T) {
	content := `# bashrc
#:IFDEF $SNAPCONF_WORK
alias deploy='make deploy'
#:ELSE
alias deploy='echo not on this machine'
#:ENDIF
export EDITOR=vim`

	t.Setenv("SNAPCONF_WORK", "1")
	p := New(&snapconf.Config{}, ".", staticPrompter{})
	rendered, err := p.Render(newFileConfig(), content)
	assert.NoError(t, err)
	assert.Equal(t, `# bashrc
alias deploy='make deploy'
export EDITOR=vim`, rendered)
}

func TestRenderKeepsInstructions(t *testing.T) {
	content := `#:IFDEF $SNAPCONF_UNSET_VARIABLE
alias deploy='make deploy'
#:ENDIF
export EDITOR=vim`

	fc := newFileConfig()
	fc.RemoveInstructions = ptr(false)
	p := New(&snapconf.Config{}, ".", staticPrompter{})
	rendered, err := p.Render(fc, content)
	assert.NoError(t, err)
	assert.Equal(t, `#:IFDEF $SNAPCONF_UNSET_VARIABLE
#:ENDIF
export EDITOR=vim`, rendered)
}

func TestRenderAsk(t *testing.T) {
	content := `#:ASK Which editor?
#:OPTION vim
export EDITOR=vim
#:OPTION emacs
export EDITOR=emacs
#:ENDASK`

	p := New(&snapconf.Config{}, ".", staticPrompter{selected: 1})
	rendered, err := p.Render(newFileConfig(), content)
	assert.NoError(t, err)
	assert.Equal(t, "export EDITOR=emacs", rendered)
}

func TestRenderWithoutPrefixPassesThrough(t *testing.T) {
	content := "#:GARBAGE that would not parse\nkeep me"
	fc := newFileConfig()
	fc.Prefix = nil
	p := New(&snapconf.Config{}, ".", staticPrompter{})
	rendered, err := p.Render(fc, content)
	assert.NoError(t, err)
	assert.Equal(t, content, rendered)
}

func TestRenderReportsParseErrorWithLine(t *testing.T) {
	content := "fine\n#:FROBNICATE\nfine"
	p := New(&snapconf.Config{}, ".", staticPrompter{})
	_, err := p.Render(newFileConfig(), content)
	assert.IsError(t, err, directive.ErrUnrecognizedDirective)
	assert.Contains(t, err.Error(), "line 1")
}

func TestRenderSubstitutions(t *testing.T) {
	t.Setenv("SNAPCONF_TESTHOME", "/home/user")
	config := &snapconf.Config{
		Substitutions: map[string]string{"EMAIL": "you@example.com"},
	}
	fc := newFileConfig()
	fc.Escape = &snapconf.Escape{Start: "{%", End: "%}"}

	p := New(config, ".", staticPrompter{})
	rendered, err := p.Render(fc, "mail = {%EMAIL%}\nhome = {%$SNAPCONF_TESTHOME%}")
	assert.NoError(t, err)
	assert.Equal(t, "mail = you@example.com\nhome = /home/user", rendered)
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "bashrc")
	assert.NoError(t, os.WriteFile(source, []byte("#:IFDEF $SNAPCONF_UNSET_VARIABLE\ngone\n#:ENDIF\nkept"), 0o644))

	config := &snapconf.Config{Files: []snapconf.FileConfig{*newFileConfig()}}
	p := New(config, dir, staticPrompter{})
	outPath, err := p.ProcessFile(&config.Files[0])
	assert.NoError(t, err)
	assert.Equal(t, source+snapconf.PreprocessedSuffix, outPath)

	written, err := os.ReadFile(outPath)
	assert.NoError(t, err)
	assert.Equal(t, "kept", string(written))
}

func TestProcessFileMissingSource(t *testing.T) {
	config := &snapconf.Config{Files: []snapconf.FileConfig{*newFileConfig()}}
	p := New(config, t.TempDir(), staticPrompter{})
	_, err := p.ProcessFile(&config.Files[0])
	assert.IsError(t, err, ErrReadSource)
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "bashrc")
	config := &snapconf.Config{Files: []snapconf.FileConfig{*newFileConfig()}}
	p := New(config, dir, nil)

	assert.NoError(t, os.WriteFile(source, []byte("#:ASK Enable aliases?\nalias g=git\n#:ENDASK"), 0o644))
	assert.NoError(t, p.ValidateFile(&config.Files[0]))

	assert.NoError(t, os.WriteFile(source, []byte("#:IFDEF $HOME\nno closer"), 0o644))
	assert.IsError(t, p.ValidateFile(&config.Files[0]), directive.ErrMissingClosingDirective)
}
