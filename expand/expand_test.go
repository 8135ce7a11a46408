package expand

import (
	"runtime"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestEnv(t *testing.T) {
	t.Setenv("SNAPCONF_EDITOR", "vim")

	assert.Equal(t, "vim", Env("$SNAPCONF_EDITOR"))
	assert.Equal(t, "vim", Env("${SNAPCONF_EDITOR}"))
	assert.Equal(t, "use vim now", Env("use $SNAPCONF_EDITOR now"))
	assert.Equal(t, "", Env("$SNAPCONF_UNSET_VARIABLE"))
}

func TestEnvEscapedDollar(t *testing.T) {
	t.Setenv("SNAPCONF_EDITOR", "vim")

	assert.Equal(t, `\$SNAPCONF_EDITOR`, Env(`\$SNAPCONF_EDITOR`))
	assert.Equal(t, `\${SNAPCONF_EDITOR}`, Env(`\${SNAPCONF_EDITOR}`))
}

func TestCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	assert.Equal(t, "hi", Command("$(echo hi)"))
	assert.Equal(t, "say hi twice", Command("say $(echo hi) twice"))
	assert.Equal(t, "", Command("$(false)"))
	assert.Equal(t, "no substitution here", Command("no substitution here"))
}

func TestExpandCombined(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	t.Setenv("SNAPCONF_NAME", "world")

	assert.Equal(t, "hello world", Expand("$(echo hello) $SNAPCONF_NAME"))
}

func TestPathExpandsEnvOnly(t *testing.T) {
	t.Setenv("SNAPCONF_ROOT", "/opt")

	assert.Equal(t, "/opt/bin", Path("${SNAPCONF_ROOT}/bin"))
	assert.Equal(t, "$(echo x)", Path("$(echo x)"))
}
