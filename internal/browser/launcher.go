// Package browser opens URLs with the platform's default handler.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	"github.com/pders01/screener/internal/config"
	"github.com/pders01/screener/internal/debuglog"
	"github.com/pders01/screener/internal/validation"
)

type Launcher struct {
	opener        string
	quoteTemplate string
	start         func(cmd *exec.Cmd) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	opener := cfg.Browser.DefaultOpener
	if opener == "" {
		opener = findCommand("xdg-open", "open", "wslview")
	}
	return &Launcher{
		opener:        opener,
		quoteTemplate: cfg.Browser.QuoteURLTemplate,
		start:         startDetached,
	}
}

// Open hands an http(s) URL to the configured opener.
func (l *Launcher) Open(rawURL string) error {
	target, err := validation.NewBaseURLValidator().ValidateAndNormalize(rawURL)
	if err != nil {
		return err
	}
	return l.launch(target)
}

// QuoteURL is the external quote page for a symbol, or "" when none is
// configured.
func (l *Launcher) QuoteURL(symbol string) string {
	if l.quoteTemplate == "" {
		return ""
	}
	return fmt.Sprintf(l.quoteTemplate, url.PathEscape(strings.ToUpper(strings.TrimSpace(symbol))))
}

// OpenQuote opens the external quote page for a symbol.
func (l *Launcher) OpenQuote(symbol string) error {
	symbol, err := validation.ValidateSymbol(symbol)
	if err != nil {
		return err
	}
	quote := l.QuoteURL(symbol)
	if quote == "" {
		return fmt.Errorf("no quote URL configured")
	}
	target, err := validation.NewExternalURLValidator().ValidateAndNormalize(quote)
	if err != nil {
		return err
	}
	return l.launch(target)
}

func (l *Launcher) command(target string) (*exec.Cmd, error) {
	if l.opener == "" {
		return nil, fmt.Errorf("no application found to open URL")
	}
	if l.opener == "start" {
		return exec.Command("cmd", "/c", "start", "", target), nil
	}
	fields := strings.Fields(l.opener)
	args := append(fields[1:], target)
	return exec.Command(fields[0], args...), nil
}

func (l *Launcher) launch(target string) error {
	cmd, err := l.command(target)
	if err != nil {
		return err
	}
	debuglog.Debugf("Opening %s with %s", target, cmd.Path)
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.opener, err)
	}
	return nil
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}
