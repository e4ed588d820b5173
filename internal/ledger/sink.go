package ledger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/josh-kwaku/bakery-pos/internal/domain"
)

const fileHeader = "; POS Panadería — Ledger principal\n"

var ErrEmptyEntry = errors.New("empty ledger entry")

// Locker guards appends across processes sharing one ledger file.
type Locker interface {
	Acquire(ctx context.Context) (release func(context.Context) error, err error)
}

type FileSink struct {
	path   string
	locker Locker
	logger *slog.Logger

	mu sync.Mutex
}

// NewFileSink appends to the file at path. locker may be nil when only one
// process writes the ledger.
func NewFileSink(path string, locker Locker, logger *slog.Logger) *FileSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSink{path: path, locker: locker, logger: logger}
}

func (s *FileSink) Path() string {
	return s.path
}

// Append writes text preceded by a blank line and followed by a newline, in
// one write on a file opened with O_APPEND.
func (s *FileSink) Append(ctx context.Context, text string) error {
	text = strings.TrimRight(text, "\n")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("Append: %w", ErrEmptyEntry)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx)
		if err != nil {
			return fmt.Errorf("Append: %w", err)
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("failed to release ledger lock", "error", err)
			}
		}()
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("Append: %w", unavailable(err))
	}

	_, werr := f.WriteString("\n" + text + "\n")
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		return fmt.Errorf("Append: %w", unavailable(err))
	}
	return nil
}

// Tail returns up to n of the most recent entries, oldest first.
func (s *FileSink) Tail(n int) ([]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Tail: %w", unavailable(err))
	}

	entries := SplitEntries(string(data))
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

// SplitEntries breaks ledger text into entries on blank lines. Comment lines
// are dropped.
func SplitEntries(text string) []string {
	var (
		entries []string
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			entries = append(entries, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()
		case strings.HasPrefix(trimmed, ";"), strings.HasPrefix(trimmed, "#"):
		default:
			current = append(current, strings.TrimRight(line, " \t"))
		}
	}
	flush()
	return entries
}

// EnsureFile creates the ledger with its comment header when missing.
func EnsureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("EnsureFile: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("EnsureFile: %w", err)
	}
	if err := os.WriteFile(path, []byte(fileHeader), 0o644); err != nil {
		return fmt.Errorf("EnsureFile: %w", err)
	}
	return nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrLedgerUnavailable, err)
}
