package playedwith

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/pierrec/lz4/v4"
)

// ErrUnsupportedSnapshot is returned for files that are not a snapshot this
// build knows how to read
var ErrUnsupportedSnapshot = errors.New("unsupported played-with snapshot")

const (
	snapshotMagic   = "PWAG"
	snapshotVersion = uint16(1)
	headerSize      = len(snapshotMagic) + 2
)

// wire schema, version 1

type snapshotV1 struct {
	Owner         string
	Relationships []relationshipV1
	Seen          []byte
}

type relationshipV1 struct {
	Key        string
	Username   string
	Ally       bool
	LastPlayed time.Time
	Entries    []encounterV1
}

type encounterV1 struct {
	Champion string
	Outcome  int8
	Ally     bool
	MatchID  string
	PlayedAt time.Time
}

// Store persists the aggregate for one local user
type Store struct {
	path  string
	owner string
}

// NewStore creates a store writing to path on behalf of owner
func NewStore(path, owner string) *Store {
	return &Store{path: path, owner: owner}
}

// DefaultPath returns the per-user config location of the snapshot file
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(dir, "MatchHistory", "played_with.bin"), nil
}

// Path returns the snapshot file location
func (s *Store) Path() string {
	return s.path
}

// Save writes the snapshot, tagged with the store's owner. The file is
// replaced atomically.
func (s *Store) Save(snap *Snapshot) error {
	wire, err := encodeV1(s.owner, snap)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".played_with-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := writeSnapshot(tmp, wire); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot. A missing or empty file, or a file that belongs
// to a different user, yields an empty snapshot for the store's owner.
func (s *Store) Load() (*Snapshot, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return EmptySnapshot(s.owner), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat snapshot: %w", err)
	}
	if info.Size() == 0 {
		return EmptySnapshot(s.owner), nil
	}

	wire, err := readSnapshot(f)
	if err != nil {
		return nil, err
	}

	// owners compare like relationship keys, so casing and spacing of the
	// Riot ID do not matter
	if Sanitize(wire.Owner) != Sanitize(s.owner) {
		log.Printf("[PlayedWith] Discarding snapshot owned by %q (active user %q)", wire.Owner, s.owner)
		return EmptySnapshot(s.owner), nil
	}

	snap, err := decodeV1(wire)
	if err != nil {
		return nil, err
	}
	snap.Owner = s.owner
	return snap, nil
}

func writeSnapshot(w io.Writer, wire *snapshotV1) error {
	header := make([]byte, headerSize)
	copy(header, snapshotMagic)
	binary.BigEndian.PutUint16(header[len(snapshotMagic):], snapshotVersion)

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(header); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}

	zw := lz4.NewWriter(bw)
	if err := gob.NewEncoder(zw).Encode(wire); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	return bw.Flush()
}

func readSnapshot(r io.Reader) (*snapshotV1, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: truncated header", ErrUnsupportedSnapshot)
	}
	if string(header[:len(snapshotMagic)]) != snapshotMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrUnsupportedSnapshot, header[:len(snapshotMagic)])
	}
	if v := binary.BigEndian.Uint16(header[len(snapshotMagic):]); v != snapshotVersion {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedSnapshot, v)
	}

	var wire snapshotV1
	if err := gob.NewDecoder(lz4.NewReader(r)).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &wire, nil
}

func encodeV1(owner string, snap *Snapshot) (*snapshotV1, error) {
	wire := &snapshotV1{Owner: owner}
	if snap == nil {
		return wire, nil
	}

	for key, rel := range snap.Relationships {
		rv := relationshipV1{
			Key:        key,
			Username:   rel.Username,
			Ally:       rel.Ally,
			LastPlayed: rel.LastPlayed,
			Entries:    make([]encounterV1, 0, len(rel.Entries)),
		}
		for _, e := range rel.Entries {
			rv.Entries = append(rv.Entries, encounterV1{
				Champion: e.Champion,
				Outcome:  int8(e.Outcome),
				Ally:     e.Ally,
				MatchID:  e.MatchID,
				PlayedAt: e.PlayedAt,
			})
		}
		wire.Relationships = append(wire.Relationships, rv)
	}

	if snap.Seen != nil {
		var buf bytes.Buffer
		if _, err := snap.Seen.WriteTo(&buf); err != nil {
			return nil, fmt.Errorf("failed to encode seen filter: %w", err)
		}
		wire.Seen = buf.Bytes()
	}
	return wire, nil
}

func decodeV1(wire *snapshotV1) (*Snapshot, error) {
	snap := EmptySnapshot(wire.Owner)
	for _, rv := range wire.Relationships {
		rel := &Relationship{
			Username:   rv.Username,
			Ally:       rv.Ally,
			LastPlayed: rv.LastPlayed,
			Entries:    make([]Encounter, 0, len(rv.Entries)),
		}
		for _, e := range rv.Entries {
			rel.Entries = append(rel.Entries, Encounter{
				Champion: e.Champion,
				Outcome:  Outcome(e.Outcome),
				Ally:     e.Ally,
				MatchID:  e.MatchID,
				PlayedAt: e.PlayedAt,
			})
		}
		snap.Relationships[rv.Key] = rel
	}

	if len(wire.Seen) > 0 {
		seen := &bloom.BloomFilter{}
		if _, err := seen.ReadFrom(bytes.NewReader(wire.Seen)); err != nil {
			return nil, fmt.Errorf("failed to decode seen filter: %w", err)
		}
		snap.Seen = seen
	}
	return snap, nil
}
