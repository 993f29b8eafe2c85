package clipboard

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// CopiedMsg reports the outcome of a Write
type CopiedMsg struct {
	Text string
	Err  error
}

// Service copies text to the system clipboard
type Service interface {
	// Write copies text asynchronously; the returned command yields a CopiedMsg
	Write(text string) tea.Cmd
}

type clipboardService struct {
	command  string
	logger   *slog.Logger
	writeAll func(string) error
	lookPath func(string) (string, error)
}

// NewService creates a clipboard service. command, when set, is used when
// the native clipboard is unavailable (for example "wl-copy" or "clip.exe").
func NewService(command string, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &clipboardService{
		command:  command,
		logger:   logger,
		writeAll: clipboard.WriteAll,
		lookPath: exec.LookPath,
	}
}

func (s *clipboardService) Write(text string) tea.Cmd {
	return func() tea.Msg {
		return CopiedMsg{Text: text, Err: s.write(text)}
	}
}

func (s *clipboardService) write(text string) error {
	err := s.writeAll(text)
	if err == nil {
		s.logger.Debug("copied to clipboard", "method", "native", "text_length", len(text))
		return nil
	}
	s.logger.Warn("native clipboard failed, trying fallback", "error", err)

	parts, err := s.fallbackCommand()
	if err != nil {
		return err
	}

	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		s.logger.Error("clipboard command failed", "command", parts, "error", err)
		return fmt.Errorf("clipboard command %q failed: %w", parts[0], err)
	}

	s.logger.Debug("copied to clipboard", "method", parts[0], "text_length", len(text))
	return nil
}

func (s *clipboardService) fallbackCommand() ([]string, error) {
	if s.command != "" {
		parts := parseCommand(s.command)
		if len(parts) == 0 {
			return nil, fmt.Errorf("invalid clipboard command in config: %q", s.command)
		}
		return parts, nil
	}

	switch runtime.GOOS {
	case "windows":
		return []string{"clip.exe"}, nil
	case "darwin":
		return []string{"pbcopy"}, nil
	case "linux":
		if isWSL() {
			return []string{"clip.exe"}, nil
		}
		candidates := [][]string{
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		}
		for _, c := range candidates {
			if _, err := s.lookPath(c[0]); err == nil {
				return c, nil
			}
		}
		return nil, errors.New("no clipboard tool found (install wl-clipboard, xclip or xsel)")
	default:
		return nil, fmt.Errorf("clipboard not supported on %s", runtime.GOOS)
	}
}

// parseCommand splits a command line into arguments, honoring single and double quotes
func parseCommand(command string) []string {
	var parts []string
	var current strings.Builder
	var quote rune

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	for _, r := range command {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '\'' || r == '"'):
			quote = r
		case quote == 0 && r == ' ':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return parts
}

func isWSL() bool {
	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	version := strings.ToLower(string(data))
	return strings.Contains(version, "microsoft") || strings.Contains(version, "wsl")
}
