package notecrypt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestKeeper(t *testing.T) *Keeper {
	t.Helper()

	keeper, err := LoadOrCreate(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create keeper: %v", err)
	}
	return keeper
}

func TestLoadOrCreate(t *testing.T) {
	t.Run("creates key file with owner-only permissions", func(t *testing.T) {
		dir := t.TempDir()
		keeper, err := LoadOrCreate(filepath.Join(dir, "test.db"))
		if err != nil {
			t.Fatalf("failed to create keeper: %v", err)
		}

		info, err := os.Stat(keeper.KeyPath())
		if err != nil {
			t.Fatalf("key file was not created: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("expected key file mode 0600, got %o", perm)
		}
		if filepath.Base(keeper.KeyPath()) != KeyFileName {
			t.Errorf("expected key file name %q, got %q", KeyFileName, filepath.Base(keeper.KeyPath()))
		}
	})

	t.Run("reuses existing key file", func(t *testing.T) {
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "test.db")

		first, err := LoadOrCreate(dbPath)
		if err != nil {
			t.Fatalf("failed to create keeper: %v", err)
		}
		record, err := first.Encrypt("persisted across reopen")
		if err != nil {
			t.Fatalf("failed to encrypt: %v", err)
		}

		second, err := LoadOrCreate(dbPath)
		if err != nil {
			t.Fatalf("failed to reopen keeper: %v", err)
		}
		plaintext, err := second.Decrypt(record)
		if err != nil {
			t.Fatalf("failed to decrypt with reloaded key: %v", err)
		}
		if plaintext != "persisted across reopen" {
			t.Errorf("expected original plaintext, got %q", plaintext)
		}
	})

	t.Run("rejects corrupted key file", func(t *testing.T) {
		dir := t.TempDir()
		keyPath := filepath.Join(dir, KeyFileName)
		if err := os.WriteFile(keyPath, []byte("not hex at all"), 0o600); err != nil {
			t.Fatalf("failed to write corrupt key: %v", err)
		}

		if _, err := LoadOrCreate(filepath.Join(dir, "test.db")); err == nil {
			t.Error("expected error for corrupt key file, got nil")
		}
	})
}

func TestEncryptDecrypt(t *testing.T) {
	keeper := newTestKeeper(t)

	t.Run("round trip", func(t *testing.T) {
		inputs := []string{
			"a",
			"short note",
			"exactly sixteen!",
			"notas con acentos: inversión a largo plazo, año 2025",
			strings.Repeat("long ", 200),
		}
		for _, input := range inputs {
			record, err := keeper.Encrypt(input)
			if err != nil {
				t.Fatalf("failed to encrypt %q: %v", input, err)
			}
			plaintext, err := keeper.Decrypt(record)
			if err != nil {
				t.Fatalf("failed to decrypt %q: %v", input, err)
			}
			if plaintext != input {
				t.Errorf("round trip mismatch: got %q, want %q", plaintext, input)
			}
		}
	})

	t.Run("record format is iv:ciphertext hex", func(t *testing.T) {
		record, err := keeper.Encrypt("format check")
		if err != nil {
			t.Fatalf("failed to encrypt: %v", err)
		}

		parts := strings.SplitN(record, ":", 2)
		if len(parts) != 2 {
			t.Fatalf("expected two colon-separated parts, got %q", record)
		}
		if len(parts[0]) != 32 {
			t.Errorf("expected 32 hex chars of IV, got %d", len(parts[0]))
		}
	})

	t.Run("fresh IV per call", func(t *testing.T) {
		first, err := keeper.Encrypt("same plaintext")
		if err != nil {
			t.Fatalf("failed to encrypt: %v", err)
		}
		second, err := keeper.Encrypt("same plaintext")
		if err != nil {
			t.Fatalf("failed to encrypt: %v", err)
		}
		if first == second {
			t.Error("expected distinct records for repeated plaintext")
		}
	})

	t.Run("malformed records fail", func(t *testing.T) {
		malformed := []string{
			"",
			"no colon here",
			"zzzz:abcdef",
			"0102030405060708090a0b0c0d0e0f10:nothex",
			"0102030405060708090a0b0c0d0e0f10:abcd", // not block aligned
		}
		for _, record := range malformed {
			if _, err := keeper.Decrypt(record); err == nil {
				t.Errorf("expected error for record %q, got nil", record)
			}
		}
	})

	t.Run("wrong key fails", func(t *testing.T) {
		record, err := keeper.Encrypt("secret under key A")
		if err != nil {
			t.Fatalf("failed to encrypt: %v", err)
		}

		other := newTestKeeper(t)
		if plaintext, err := other.Decrypt(record); err == nil && plaintext == "secret under key A" {
			t.Error("expected decryption under a different key to fail")
		}
	})
}

func TestReload(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	keeperA, err := LoadOrCreate(filepath.Join(dirA, "test.db"))
	if err != nil {
		t.Fatalf("failed to create keeper A: %v", err)
	}
	keeperB, err := LoadOrCreate(filepath.Join(dirB, "test.db"))
	if err != nil {
		t.Fatalf("failed to create keeper B: %v", err)
	}

	record, err := keeperB.Encrypt("encrypted under key B")
	if err != nil {
		t.Fatalf("failed to encrypt: %v", err)
	}

	// Swap B's key file into A's path, then reload A.
	raw, err := os.ReadFile(keeperB.KeyPath())
	if err != nil {
		t.Fatalf("failed to read key B: %v", err)
	}
	if err := os.WriteFile(keeperA.KeyPath(), raw, 0o600); err != nil {
		t.Fatalf("failed to overwrite key A: %v", err)
	}
	if err := keeperA.Reload(); err != nil {
		t.Fatalf("failed to reload: %v", err)
	}

	plaintext, err := keeperA.Decrypt(record)
	if err != nil {
		t.Fatalf("failed to decrypt after reload: %v", err)
	}
	if plaintext != "encrypted under key B" {
		t.Errorf("expected plaintext from key B, got %q", plaintext)
	}
}
