package editor

import (
	"errors"
	"os"
	"os/exec"
	"strings"

	"workjournal/internal/ports"
)

// ErrNoEditor is returned when neither the configured command, $VISUAL,
// $EDITOR nor a common editor on $PATH is available
var ErrNoEditor = errors.New("no editor found: set [editor] command or $EDITOR")

// Opener implements ports.EditorOpener
type Opener struct {
	command  string
	lookPath func(string) (string, error)
	getenv   func(string) string
}

var _ ports.EditorOpener = (*Opener)(nil)

// NewOpener creates an opener. command may carry arguments ("code --wait");
// an empty command defers to the environment.
func NewOpener(command string) *Opener {
	return &Opener{
		command:  strings.TrimSpace(command),
		lookPath: exec.LookPath,
		getenv:   os.Getenv,
	}
}

// OpenFile opens path and waits for the editor to exit
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd wired to the current terminal
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	argv := o.argv()
	if len(argv) == 0 {
		return nil, ErrNoEditor
	}

	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

func (o *Opener) argv() []string {
	for _, candidate := range []string{o.command, o.getenv("VISUAL"), o.getenv("EDITOR")} {
		if fields := strings.Fields(candidate); len(fields) > 0 {
			return fields
		}
	}

	for _, name := range []string{"nvim", "vim", "vi", "nano"} {
		if path, err := o.lookPath(name); err == nil {
			return []string{path}
		}
	}
	return nil
}
