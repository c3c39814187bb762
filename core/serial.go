package core

import (
	"time"

	mus "github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the domain types. These are the single source of truth
// for the on-disk layout of documents, both in the snapshot file and in the
// archive. Field order is part of the format; bump the snapshot version when
// changing it.
var (
	IDMUS         = idSer{}
	VectorMUS     = vectorSer{}
	DocumentMUS   = documentSer{}
	CheckpointMUS = checkpointSer{}
)

var (
	_ mus.Serializer[ID]         = IDMUS
	_ mus.Serializer[[]float32]  = VectorMUS
	_ mus.Serializer[Document]   = DocumentMUS
	_ mus.Serializer[Checkpoint] = CheckpointMUS
)

type idSer struct{}

func (idSer) Marshal(id ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idSer) Unmarshal(bs []byte) (id ID, n int, err error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idSer) Size(id ID) (size int) {
	return varint.Uint64.Size(uint64(id))
}

func (idSer) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type vectorSer struct{}

func (vectorSer) Marshal(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += varint.Float32.Marshal(f, bs[n:])
	}
	return n
}

func (vectorSer) Unmarshal(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	v = make([]float32, length)
	for i := 0; i < length; i++ {
		var n1 int
		v[i], n1, err = varint.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
	}
	return v, n, nil
}

func (vectorSer) Size(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += varint.Float32.Size(f)
	}
	return size
}

func (s vectorSer) Skip(bs []byte) (n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return n, err
	}
	for i := 0; i < length; i++ {
		var n1 int
		n1, err = varint.Float32.Skip(bs[n:])
		n += n1
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

type documentSer struct{}

func (documentSer) Marshal(doc Document, bs []byte) (n int) {
	n = IDMUS.Marshal(doc.Id, bs)
	n += ord.String.Marshal(doc.Title, bs[n:])
	n += ord.String.Marshal(doc.Body, bs[n:])
	n += ord.String.Marshal(doc.Summary, bs[n:])
	n += varint.Int.Marshal(len(doc.Tags), bs[n:])
	for _, tag := range doc.Tags {
		n += ord.String.Marshal(tag, bs[n:])
	}
	n += ord.String.Marshal(doc.SourceURL, bs[n:])
	n += ord.String.Marshal(doc.ContentType, bs[n:])
	n += varint.Int64.Marshal(timeToMicro(doc.AcquiredAt), bs[n:])
	n += ord.Bool.Marshal(doc.Processed, bs[n:])
	n += ord.Bool.Marshal(doc.Success, bs[n:])
	return n
}

func (documentSer) Unmarshal(bs []byte) (doc Document, n int, err error) {
	var n1 int
	doc.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return doc, n, err
	}
	doc.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return doc, n, err
	}
	doc.Body, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return doc, n, err
	}
	doc.Summary, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return doc, n, err
	}
	var tagCount int
	tagCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return doc, n, err
	}
	if tagCount > 0 {
		doc.Tags = make([]string, tagCount)
		for i := 0; i < tagCount; i++ {
			doc.Tags[i], n1, err = ord.String.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return doc, n, err
			}
		}
	}
	doc.SourceURL, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return doc, n, err
	}
	doc.ContentType, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return doc, n, err
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return doc, n, err
	}
	doc.AcquiredAt = microToTime(micros)
	doc.Processed, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return doc, n, err
	}
	doc.Success, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	return doc, n, err
}

func (documentSer) Size(doc Document) (size int) {
	size = IDMUS.Size(doc.Id)
	size += ord.String.Size(doc.Title)
	size += ord.String.Size(doc.Body)
	size += ord.String.Size(doc.Summary)
	size += varint.Int.Size(len(doc.Tags))
	for _, tag := range doc.Tags {
		size += ord.String.Size(tag)
	}
	size += ord.String.Size(doc.SourceURL)
	size += ord.String.Size(doc.ContentType)
	size += varint.Int64.Size(timeToMicro(doc.AcquiredAt))
	size += ord.Bool.Size(doc.Processed)
	size += ord.Bool.Size(doc.Success)
	return size
}

func (s documentSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type checkpointSer struct{}

func (checkpointSer) Marshal(cp Checkpoint, bs []byte) (n int) {
	n = ord.String.Marshal(cp.Name, bs)
	n += IDMUS.Marshal(cp.LastID, bs[n:])
	n += varint.Int64.Marshal(cp.Processed, bs[n:])
	n += varint.Int64.Marshal(timeToMicro(cp.UpdatedAt), bs[n:])
	return n
}

func (checkpointSer) Unmarshal(bs []byte) (cp Checkpoint, n int, err error) {
	var n1 int
	cp.Name, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return cp, n, err
	}
	cp.LastID, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return cp, n, err
	}
	cp.Processed, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return cp, n, err
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	cp.UpdatedAt = microToTime(micros)
	return cp, n, err
}

func (checkpointSer) Size(cp Checkpoint) (size int) {
	size = ord.String.Size(cp.Name)
	size += IDMUS.Size(cp.LastID)
	size += varint.Int64.Size(cp.Processed)
	size += varint.Int64.Size(timeToMicro(cp.UpdatedAt))
	return size
}

func (s checkpointSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

// Timestamps travel as Unix microseconds; the zero time maps to 0 so it
// survives a round trip exactly.
func timeToMicro(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func microToTime(micros int64) time.Time {
	if micros == 0 {
		return time.Time{}
	}
	return time.UnixMicro(micros).UTC()
}
