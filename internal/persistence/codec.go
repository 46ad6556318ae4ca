package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mauv0809/arena/internal/arena"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec converts a snapshot to and from its stored form.
type Codec interface {
	Name() string
	Encode(snap *arena.Snapshot) ([]byte, error)
	Decode(b []byte) (*arena.Snapshot, error)
}

// CodecFor returns the codec registered under name ("json" or "msgpack").
func CodecFor(name string) (Codec, error) {
	switch name {
	case "", JSONCodec{}.Name():
		return JSONCodec{}, nil
	case MsgpackCodec{}.Name():
		return MsgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown document format %q", name)
	}
}

// JSONCodec writes an indented JSON document.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Encode(snap *arena.Snapshot) ([]byte, error) {
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode json document: %w", err)
	}
	return append(b, '\n'), nil
}

func (JSONCodec) Decode(b []byte) (*arena.Snapshot, error) {
	var snap arena.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode json document: %w", err)
	}
	return &snap, nil
}

// MsgpackCodec writes a MessagePack document using the same field names as
// the JSON form.
type MsgpackCodec struct{}

func (MsgpackCodec) Name() string { return "msgpack" }

func (MsgpackCodec) Encode(snap *arena.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(snap); err != nil {
		return nil, fmt.Errorf("failed to encode msgpack document: %w", err)
	}
	return buf.Bytes(), nil
}

func (MsgpackCodec) Decode(b []byte) (*arena.Snapshot, error) {
	var snap arena.Snapshot
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode msgpack document: %w", err)
	}
	return &snap, nil
}
