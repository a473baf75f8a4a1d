package backup

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// PassphraseEnv overrides the terminal prompt, for scripted backups.
const PassphraseEnv = "FINLYTICS_BACKUP_PASSPHRASE"

var (
	ErrNoTerminal         = errors.New("no terminal to prompt for a passphrase; set " + PassphraseEnv)
	ErrPassphraseMismatch = errors.New("passphrases do not match")
)

// Prompter obtains the backup passphrase from the environment or, failing
// that, from the terminal without echo.
type Prompter struct {
	Getenv       func(string) string
	Fd           int
	IsTerminal   func(fd int) bool
	ReadPassword func(fd int) ([]byte, error)
	Out          io.Writer
}

// NewPrompter reads from stdin and prompts on stderr.
func NewPrompter() *Prompter {
	return &Prompter{
		Getenv:       os.Getenv,
		Fd:           int(os.Stdin.Fd()),
		IsTerminal:   term.IsTerminal,
		ReadPassword: term.ReadPassword,
		Out:          os.Stderr,
	}
}

// Passphrase returns the passphrase. With confirm set a typed passphrase
// must be entered twice.
func (p *Prompter) Passphrase(confirm bool) (string, error) {
	if v := p.Getenv(PassphraseEnv); v != "" {
		return v, nil
	}
	if !p.IsTerminal(p.Fd) {
		return "", ErrNoTerminal
	}

	first, err := p.read("Passphrase: ")
	if err != nil {
		return "", err
	}
	if first == "" {
		return "", ErrEmptyPassphrase
	}
	if !confirm {
		return first, nil
	}

	second, err := p.read("Confirm passphrase: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", ErrPassphraseMismatch
	}
	return first, nil
}

func (p *Prompter) read(prompt string) (string, error) {
	fmt.Fprint(p.Out, prompt)
	b, err := p.ReadPassword(p.Fd)
	fmt.Fprintln(p.Out)
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	return string(b), nil
}
