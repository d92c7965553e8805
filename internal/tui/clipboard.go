package tui

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/jmylchreest/wordbubble/internal/adapter/input"
	"github.com/jmylchreest/wordbubble/internal/model"
	"github.com/jmylchreest/wordbubble/internal/wordlist"
)

// errNoClipboard is returned when no clipboard tool is installed.
var errNoClipboard = errors.New("no clipboard command available")

// copyText copies text to the system clipboard. An explicit command
// overrides auto-detection.
func copyText(text, command string) error {
	if command == "" {
		command = detectClipboardCommand()
	}
	if command == "" {
		return errNoClipboard
	}

	parts := strings.Fields(command)
	if len(parts) == 0 {
		return fmt.Errorf("invalid clipboard command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := exec.CommandContext(ctx, parts[0], parts[1:]...)
	c.Stdin = strings.NewReader(text)

	return c.Run()
}

// detectClipboardCommand returns the first clipboard tool found on PATH.
func detectClipboardCommand() string {
	// Wayland
	if _, err := exec.LookPath("wl-copy"); err == nil {
		return "wl-copy"
	}

	// X11
	if _, err := exec.LookPath("xclip"); err == nil {
		return "xclip -selection clipboard"
	}

	if _, err := exec.LookPath("xsel"); err == nil {
		return "xsel --clipboard --input"
	}

	return ""
}

// importFromAdapter appends the entries an adapter yields to a list,
// skipping words the list already holds. It returns how many were added.
func importFromAdapter(ctx context.Context, adapter input.InputAdapter, s *wordlist.Store, name string) (int, error) {
	if adapter == nil {
		return 0, fmt.Errorf("no input adapter provided")
	}

	imported, err := adapter.Import(ctx)
	if err != nil {
		return 0, err
	}
	if len(imported) == 0 {
		return 0, nil
	}

	var existing []model.Entry
	if s.Exists(name) {
		existing, err = s.Load(name)
		if err != nil {
			return 0, err
		}
	}

	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e.Key()] = true
	}
	added := 0
	for _, e := range imported {
		if seen[e.Key()] {
			continue
		}
		seen[e.Key()] = true
		existing = append(existing, e)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if err := s.Save(name, existing); err != nil {
		return 0, err
	}
	return added, nil
}
