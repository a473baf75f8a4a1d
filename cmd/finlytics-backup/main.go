package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"finlytics/internal/backup"
	"finlytics/internal/cli"
	"finlytics/internal/log"
	"finlytics/internal/storage"
)

const usage = `usage: finlytics-backup encrypt|decrypt [-in path] -out path [-armor]

encrypt  snapshots the database (default DB_PATH) and writes an age file
decrypt  restores an age file to a plain SQLite database

The passphrase is read from ` + backup.PassphraseEnv + ` or prompted for.
`

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentBackup)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cmd := os.Args[1]

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	in := fs.String("in", "", "input file")
	out := fs.String("out", "", "output file (must not exist)")
	armored := fs.Bool("armor", false, "write ASCII-armored output")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	_ = fs.Parse(os.Args[2:])

	if *out == "" {
		fs.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	prompter := backup.NewPrompter()

	var err error
	switch cmd {
	case "encrypt":
		src := *in
		if src == "" {
			src = cli.LoadAndValidateConfig(logger).DBPath
		}
		err = encrypt(ctx, logger, prompter, src, *out, backup.Options{Armor: *armored})
	case "decrypt":
		if *in == "" {
			fs.Usage()
			os.Exit(2)
		}
		err = decrypt(logger, prompter, *in, *out)
	default:
		fs.Usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("Backup command failed", "command", cmd, log.FieldError, err)
		os.Exit(1)
	}
}

// encrypt works from a VACUUM INTO snapshot, never the live file.
func encrypt(ctx context.Context, logger *log.Logger, p *backup.Prompter, dbPath, out string, opts backup.Options) error {
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if _, err := os.Stat(out); err == nil {
		return fmt.Errorf("%w: %s", backup.ErrOutputExists, out)
	}

	passphrase, err := p.Passphrase(true)
	if err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "finlytics-backup-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)
	snapshot := filepath.Join(tmpDir, "snapshot.sqlite")

	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		return err
	}
	err = repo.Snapshot(ctx, snapshot)
	repo.Close()
	if err != nil {
		return err
	}

	if err := backup.EncryptFile(snapshot, out, passphrase, opts); err != nil {
		return err
	}
	logger.Info("Backup written", "db_path", dbPath, "out", out, "armor", opts.Armor)
	return nil
}

func decrypt(logger *log.Logger, p *backup.Prompter, in, out string) error {
	passphrase, err := p.Passphrase(false)
	if err != nil {
		return err
	}
	if err := backup.DecryptFile(in, out, passphrase); err != nil {
		return err
	}
	logger.Info("Backup restored", "in", in, "out", out)
	return nil
}
