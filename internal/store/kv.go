package store

import (
	"fmt"
)

// KV is a durable text store. Get reports ok=false for a missing key.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// Factory builds a KV rooted at dir. Backends that keep nothing on disk
// ignore dir.
type Factory func(dir string) (KV, error)

// Backends maps backend names to their factories.
var Backends = map[string]Factory{
	"file": func(dir string) (KV, error) {
		return NewFileKV(dir)
	},
	"memory": func(string) (KV, error) {
		return NewMemoryKV(), nil
	},
}

func Open(backend, dir string) (KV, error) {
	factory, ok := Backends[backend]
	if !ok {
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
	return factory(dir)
}
