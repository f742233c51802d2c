package editor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpener(command string, env map[string]string, onPath ...string) *Opener {
	o := NewOpener(command)
	o.getenv = func(key string) string { return env[key] }
	o.lookPath = func(name string) (string, error) {
		for _, p := range onPath {
			if p == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
	return o
}

func TestCommandPrefersConfiguredEditor(t *testing.T) {
	o := newTestOpener("code --wait", map[string]string{"EDITOR": "nano"})

	cmd, err := o.Command("/j/entry_2025-06-02.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"code", "--wait", "/j/entry_2025-06-02.txt"}, cmd.Args)
}

func TestCommandFallsBackToEnvironment(t *testing.T) {
	o := newTestOpener("", map[string]string{"VISUAL": "", "EDITOR": "hx"})

	cmd, err := o.Command("/j/e.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"hx", "/j/e.txt"}, cmd.Args)
}

func TestCommandSearchesPath(t *testing.T) {
	o := newTestOpener("", nil, "vi")

	cmd, err := o.Command("/j/e.txt")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/vi", cmd.Args[0])
}

func TestCommandWithoutEditor(t *testing.T) {
	o := newTestOpener("", nil)

	_, err := o.Command("/j/e.txt")
	assert.ErrorIs(t, err, ErrNoEditor)
}
