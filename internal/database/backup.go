package database

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"patrimonio/internal/logger"
	"patrimonio/internal/notecrypt"

	apperrors "patrimonio/internal/errors"
)

// Backup copies the live database file to targetPath, with the encryption
// key file alongside it under a name derived from the backup's filename.
// The live handle is closed first so pending writes are flushed, and is
// reopened before returning even when a copy fails: the application must
// never be left without a usable connection.
func (m *Manager) Backup(targetPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.closeLocked(); err != nil {
		reopenErr := m.reopenLocked()
		if reopenErr != nil {
			return apperrors.Wrap(apperrors.ErrFileSystem, reopenErr)
		}
		return apperrors.Wrap(apperrors.ErrFileSystem, err)
	}

	copyErr := copyFile(m.path, targetPath)
	if copyErr == nil {
		copyErr = copyFile(m.keys.KeyPath(), BackupKeyPath(targetPath))
	}

	if err := m.reopenLocked(); err != nil {
		return apperrors.Wrap(apperrors.ErrFileSystem, err)
	}
	if copyErr != nil {
		return apperrors.Wrap(apperrors.ErrFileSystem, copyErr)
	}

	logger.Get().Infow("database backed up", "target", targetPath)
	return nil
}

// Restore overwrites the live database file with sourcePath's contents.
// The current live file is first copied to a timestamped safety-backup path
// so a bad restore can be undone by hand. If a key file created by Backup
// exists beside the source, it replaces the live key file and the in-memory
// key is reloaded. The handle is reopened and migrations re-run so an
// older-schema backup is brought up to date. As with Backup, the live
// handle is left usable on every failure path.
func (m *Manager) Restore(sourcePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(sourcePath); err != nil {
		return apperrors.Wrap(apperrors.ErrFileSystem, err)
	}

	if err := m.closeLocked(); err != nil {
		if reopenErr := m.reopenLocked(); reopenErr != nil {
			return apperrors.Wrap(apperrors.ErrFileSystem, reopenErr)
		}
		return apperrors.Wrap(apperrors.ErrFileSystem, err)
	}

	safetyPath := fmt.Sprintf("%s.safety-backup-%s", m.path, time.Now().Format("20060102-150405"))
	if err := copyFile(m.path, safetyPath); err != nil {
		return m.failRestore(err)
	}
	if err := copyFile(sourcePath, m.path); err != nil {
		return m.failRestore(err)
	}

	keySrc := BackupKeyPath(sourcePath)
	if _, err := os.Stat(keySrc); err == nil {
		if err := copyFile(keySrc, m.keys.KeyPath()); err != nil {
			return m.failRestore(err)
		}
		if err := m.keys.Reload(); err != nil {
			return m.failRestore(err)
		}
	}

	if err := m.reopenLocked(); err != nil {
		return apperrors.Wrap(apperrors.ErrFileSystem, err)
	}

	if err := migrate(m.db); err != nil {
		return err
	}

	logger.Get().Infow("database restored", "source", sourcePath, "safety_backup", safetyPath)
	return nil
}

// failRestore reopens the live handle after a failed restore step and wraps
// the original error.
func (m *Manager) failRestore(err error) error {
	if reopenErr := m.reopenLocked(); reopenErr != nil {
		return apperrors.Wrap(apperrors.ErrFileSystem, reopenErr)
	}
	return apperrors.Wrap(apperrors.ErrFileSystem, err)
}

// BackupKeyPath returns the key-file path used for a backup at targetPath:
// a sibling file whose name ties it to the backup's filename.
func BackupKeyPath(targetPath string) string {
	return filepath.Join(filepath.Dir(targetPath), notecrypt.KeyFileName+"_"+filepath.Base(targetPath))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
