// Package backup encrypts and decrypts copies of the finlytics database with
// age passphrase (scrypt) recipients.
package backup

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"
	"filippo.io/age/armor"
)

var (
	ErrEmptyPassphrase = errors.New("empty passphrase")
	ErrWrongPassphrase = errors.New("wrong passphrase or not a passphrase-encrypted backup")
	ErrOutputExists    = errors.New("output file already exists")
)

type Options struct {
	// Armor writes PEM-style ASCII instead of binary.
	Armor bool
	// WorkFactor is the scrypt log2(N). Zero keeps the age default.
	WorkFactor int
}

// Encrypt copies src to dst encrypted to passphrase.
func Encrypt(dst io.Writer, src io.Reader, passphrase string, opts Options) error {
	if passphrase == "" {
		return ErrEmptyPassphrase
	}
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("create recipient: %w", err)
	}
	if opts.WorkFactor > 0 {
		recipient.SetWorkFactor(opts.WorkFactor)
	}

	out := dst
	var armored io.WriteCloser
	if opts.Armor {
		armored = armor.NewWriter(dst)
		out = armored
	}

	w, err := age.Encrypt(out, recipient)
	if err != nil {
		return fmt.Errorf("start encryption: %w", err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish encryption: %w", err)
	}
	if armored != nil {
		if err := armored.Close(); err != nil {
			return fmt.Errorf("finish armor: %w", err)
		}
	}
	return nil
}

// Decrypt copies the plaintext of src to dst. Armored and binary input are
// both accepted.
func Decrypt(dst io.Writer, src io.Reader, passphrase string) error {
	if passphrase == "" {
		return ErrEmptyPassphrase
	}
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return fmt.Errorf("create identity: %w", err)
	}

	in := bufio.NewReader(src)
	var body io.Reader = in
	if head, _ := in.Peek(len(armor.Header)); bytes.Equal(head, []byte(armor.Header)) {
		body = armor.NewReader(in)
	}

	r, err := age.Decrypt(body, identity)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) || errors.Is(err, age.ErrIncorrectIdentity) {
			return ErrWrongPassphrase
		}
		return fmt.Errorf("start decryption: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		return fmt.Errorf("decrypt: %w", err)
	}
	return nil
}

// EncryptFile encrypts in to out. out is written through a temporary file
// in the same directory and never overwritten.
func EncryptFile(in, out, passphrase string, opts Options) error {
	return transformFile(in, out, func(dst io.Writer, src io.Reader) error {
		return Encrypt(dst, src, passphrase, opts)
	})
}

// DecryptFile decrypts in to out with the same guarantees as EncryptFile.
func DecryptFile(in, out, passphrase string) error {
	return transformFile(in, out, func(dst io.Writer, src io.Reader) error {
		return Decrypt(dst, src, passphrase)
	})
}

func transformFile(in, out string, fn func(io.Writer, io.Reader) error) (err error) {
	if _, statErr := os.Stat(out); statErr == nil {
		return fmt.Errorf("%w: %s", ErrOutputExists, out)
	}

	src, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(out), "."+filepath.Base(out)+".*")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = fn(tmp, src); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync output: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("chmod output: %w", err)
	}
	if err = os.Rename(tmp.Name(), out); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
