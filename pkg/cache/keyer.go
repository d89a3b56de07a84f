package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// ResultKeyOpts are the inputs, besides the catalog, that determine an
// annealing result.
type ResultKeyOpts struct {
	Initial  string `json:"initial"`
	Schedule any    `json:"schedule"`
}

// Keyer names cache entries. Two searches that would produce the same
// result must get the same key.
type Keyer interface {
	ResultKey(catalogHash string, opts ResultKeyOpts) string
	CostKey(catalogHash, expr string) string
}

// DefaultKeyer builds keys of the form "result:<sha256>" and "cost:<sha256>".
type DefaultKeyer struct{}

func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ResultKey(catalogHash string, opts ResultKeyOpts) string {
	return digestKey("result", catalogHash, opts)
}

func (DefaultKeyer) CostKey(catalogHash, expr string) string {
	return digestKey("cost", catalogHash, expr)
}

// ScopedKeyer prefixes another Keyer's keys, letting several deployments
// share one Redis without colliding:
//
//	keyer := cache.NewScopedKeyer(nil, "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer scopes inner, or DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ResultKey(catalogHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(catalogHash, opts)
}

func (k *ScopedKeyer) CostKey(catalogHash, expr string) string {
	return k.prefix + k.inner.CostKey(catalogHash, expr)
}

var (
	_ Keyer = DefaultKeyer{}
	_ Keyer = (*ScopedKeyer)(nil)
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON hashes the JSON encoding of v. Struct fields encode in
// declaration order and map keys sorted, so equal values hash equally.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}

// digestKey is kind + ":" + the hash of parts. parts always marshal.
func digestKey(kind string, parts ...any) string {
	h, _ := HashJSON(parts)
	return kind + ":" + h
}
