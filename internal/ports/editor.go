package ports

import "os/exec"

// EditorOpener defines the interface for opening entry files in an external editor
type EditorOpener interface {
	// OpenFile opens path in the configured editor and waits for it to exit
	OpenFile(path string) error

	// Command returns an exec.Cmd for opening a file in the editor.
	// The TUI hands it to bubbletea's ExecProcess.
	Command(path string) (*exec.Cmd, error)
}
