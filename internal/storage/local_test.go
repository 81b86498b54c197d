package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir, "/uploads/")
	ctx := context.Background()

	url, err := s.Save(ctx, "avatars/a.png", strings.NewReader("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "/uploads/avatars/a.png" {
		t.Errorf("expected /uploads/avatars/a.png, got %q", url)
	}

	got, err := os.ReadFile(filepath.Join(dir, "avatars", "a.png"))
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(got) != "png-bytes" {
		t.Errorf("expected file contents png-bytes, got %q", got)
	}

	if err := s.Delete(ctx, "avatars/a.png"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "avatars", "a.png")); !os.IsNotExist(err) {
		t.Errorf("expected file to be removed, stat err=%v", err)
	}
}

func TestLocalStorage_DeleteMissingIsNotError(t *testing.T) {
	s := NewLocalStorage(t.TempDir(), "/uploads")
	if err := s.Delete(context.Background(), "avatars/missing.png"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s := NewLocalStorage(t.TempDir(), "/uploads")
	for _, key := range []string{"", "../etc/passwd", "/abs.png", "avatars/../../x.png"} {
		_, err := s.Save(context.Background(), key, strings.NewReader("x"), "image/png")
		if !errors.Is(err, ErrInvalidKey) {
			t.Errorf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
}
