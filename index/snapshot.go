package index

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/knowhaven/knowhaven/core"
	"github.com/mus-format/mus-go/varint"
)

// Snapshot layout: magic, format version, vector dimension, entry count,
// then (id, vector, document) tuples. The dimension tag makes a snapshot
// written with a different vector size fail loudly instead of silently
// producing nonsense scores.
var snapshotMagic = []byte("KHVS")

const snapshotVersion = 1

// WriteSnapshot serializes the complete index state to w.
func (idx *Index) WriteSnapshot(w io.Writer) error {
	entries := idx.snapshotEntries()

	size := len(snapshotMagic)
	size += varint.Int.Size(snapshotVersion)
	size += varint.Int.Size(core.VectorDimension)
	size += varint.Int.Size(len(entries))
	for id, entry := range entries {
		size += core.IDMUS.Size(id)
		size += core.VectorMUS.Size(entry.Vector)
		size += core.DocumentMUS.Size(*entry.Document)
	}

	bs := make([]byte, size)
	n := copy(bs, snapshotMagic)
	n += varint.Int.Marshal(snapshotVersion, bs[n:])
	n += varint.Int.Marshal(core.VectorDimension, bs[n:])
	n += varint.Int.Marshal(len(entries), bs[n:])
	for id, entry := range entries {
		n += core.IDMUS.Marshal(id, bs[n:])
		n += core.VectorMUS.Marshal(entry.Vector, bs[n:])
		n += core.DocumentMUS.Marshal(*entry.Document, bs[n:])
	}

	_, err := w.Write(bs)
	return err
}

// ReadSnapshot decodes a snapshot from r and REPLACES the in-memory state.
// The in-memory state is only touched after the whole snapshot decodes
// successfully, so a truncated or corrupt file leaves the index as it was.
func (idx *Index) ReadSnapshot(r io.Reader) error {
	entries, err := decodeSnapshot(r)
	if err != nil {
		return err
	}

	idx.replaceEntries(entries)
	idx.logger.Info("snapshot loaded", "entries", len(entries))
	return nil
}

// MergeSnapshot decodes a snapshot from r and merges it into the current
// state, overwriting entries with matching keys. This mirrors the load
// behavior of older deployments; prefer ReadSnapshot for restart recovery.
func (idx *Index) MergeSnapshot(r io.Reader) error {
	entries, err := decodeSnapshot(r)
	if err != nil {
		return err
	}

	idx.mergeEntries(entries)
	idx.logger.Info("snapshot merged", "entries", len(entries))
	return nil
}

// Save writes a snapshot to path. The file is written to a temporary
// sibling first and renamed into place so a crash mid-write cannot destroy
// the previous snapshot.
func (idx *Index) Save(path string) error {
	var buf bytes.Buffer
	if err := idx.WriteSnapshot(&buf); err != nil {
		return fmt.Errorf("serializing snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	idx.logger.Info("snapshot saved", "path", path)
	return nil
}

// Load reads a snapshot from path, replacing the in-memory state.
func (idx *Index) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	return idx.ReadSnapshot(f)
}

func decodeSnapshot(r io.Reader) (map[core.ID]Entry, error) {
	bs, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	if len(bs) < len(snapshotMagic) || !bytes.Equal(bs[:len(snapshotMagic)], snapshotMagic) {
		return nil, ErrBadSnapshot
	}
	n := len(snapshotMagic)

	version, n1, err := varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	if version != snapshotVersion {
		return nil, fmt.Errorf("%w: version %d", ErrSnapshotVersion, version)
	}

	dimension, n1, err := varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	if dimension != core.VectorDimension {
		return nil, fmt.Errorf("%w: snapshot has %d, index expects %d",
			ErrSnapshotDimension, dimension, core.VectorDimension)
	}

	count, n1, err := varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil || count < 0 {
		return nil, fmt.Errorf("%w: bad entry count", ErrBadSnapshot)
	}

	entries := make(map[core.ID]Entry, count)
	for i := 0; i < count; i++ {
		id, n1, err := core.IDMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d id: %w", ErrBadSnapshot, i, err)
		}

		vector, n1, err := core.VectorMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d vector: %w", ErrBadSnapshot, i, err)
		}
		if len(vector) != core.VectorDimension {
			return nil, fmt.Errorf("%w: entry %d has %d elements", ErrSnapshotDimension, i, len(vector))
		}

		doc, n1, err := core.DocumentMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d document: %w", ErrBadSnapshot, i, err)
		}

		entries[id] = Entry{Vector: vector, Document: &doc}
	}

	return entries, nil
}
