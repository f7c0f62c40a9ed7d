// Package session keeps REPL definitions across runs. A session stores the
// source of every assignment and function definition; loading replays them
// in order against a fresh scope.
package session

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// schemaVersion bumps whenever Payload changes shape.
const schemaVersion uint16 = 1

var (
	ErrSchema   = errors.New("session schema mismatch")
	ErrCorrupt  = errors.New("session checksum mismatch")
	ErrNotFound = errors.New("session not found")
)

// EntryKind tells Replay how to apply an entry.
type EntryKind uint8

const (
	EntryAssign EntryKind = iota + 1
	EntryFunction
	EntryDeclare
)

func (k EntryKind) String() string {
	switch k {
	case EntryAssign:
		return "assign"
	case EntryFunction:
		return "function"
	case EntryDeclare:
		return "declare"
	default:
		return "unknown"
	}
}

// Entry is one definition as the user typed it, in the notation it was typed in.
type Entry struct {
	Kind     EntryKind
	Name     string
	Params   []string
	Source   string
	Notation string
}

func (e Entry) String() string {
	switch e.Kind {
	case EntryFunction:
		return fmt.Sprintf("def %s(%s) = %s", e.Name, strings.Join(e.Params, ", "), e.Source)
	case EntryDeclare:
		return "var " + e.Name
	default:
		return e.Name + " := " + e.Source
	}
}

// Payload is the on-disk form.
type Payload struct {
	Schema   uint16
	Domain   string
	Saved    time.Time
	Entries  []Entry
	Checksum [sha256.Size]byte
}

// Log accumulates entries for one session.
type Log struct {
	mu      sync.Mutex
	domain  string
	entries []Entry
}

func NewLog(domain string) *Log {
	return &Log{domain: domain}
}

// Record appends e.
func (l *Log) Record(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Payload snapshots the log.
func (l *Log) Payload() *Payload {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := &Payload{
		Schema:  schemaVersion,
		Domain:  l.domain,
		Saved:   time.Now().UTC(),
		Entries: append([]Entry(nil), l.entries...),
	}
	p.Checksum = checksum(p)
	return p
}

// FromPayload restores a log so new entries extend the loaded ones.
func FromPayload(p *Payload) *Log {
	return &Log{domain: p.Domain, entries: append([]Entry(nil), p.Entries...)}
}

// Save writes p to path atomically: temp file in the same directory, then rename.
func Save(path string, p *Payload) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".calc-session-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(p); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode session: %w", err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(f.Name(), path)
}

// Load reads a payload saved by Save.
func Load(path string) (*Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, err
	}
	defer f.Close()

	var p Payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf("%s: decode session: %w", path, err)
	}
	if p.Schema != schemaVersion {
		return nil, fmt.Errorf("%s: %w: have %d, want %d", path, ErrSchema, p.Schema, schemaVersion)
	}
	if checksum(&p) != p.Checksum {
		return nil, fmt.Errorf("%s: %w", path, ErrCorrupt)
	}
	return &p, nil
}

func checksum(p *Payload) [sha256.Size]byte {
	h := sha256.New()
	fmt.Fprintf(h, "%d\x00%s\x00", p.Schema, p.Domain)
	for _, e := range p.Entries {
		fmt.Fprintf(h, "%d\x00%s\x00%s\x00%d\x00", e.Kind, e.Name, e.Notation, len(e.Params))
		for _, param := range e.Params {
			h.Write([]byte(param))
			h.Write([]byte{0})
		}
		h.Write([]byte(e.Source))
		h.Write([]byte{0})
	}
	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
