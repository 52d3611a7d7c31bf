package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// ErrUnsupported is returned for parameter values that have no canonical form.
var ErrUnsupported = errors.New("cache: unsupported parameter value")

// significant digits kept for float parameters
const precision = 12

// Key identifies a cached result. Hash is the hex SHA-256 of the kind's
// domain and the canonical parameters.
type Key struct {
	Kind string
	Hash string
}

func (k Key) String() string {
	h := k.Hash
	if len(h) > 12 {
		h = h[:12]
	}
	return k.Kind + ":" + h
}

func domain(kind string) string { return "binhab/" + kind + "/v1" }

// Signature computes the key for a computation of the given kind. Strings
// are NFC-normalised and floats rounded to a fixed number of significant
// digits, so equal inputs spelled differently share a key.
func Signature(kind string, params map[string]any) (Key, error) {
	v, err := canonical(params)
	if err != nil {
		return Key{}, fmt.Errorf("signature %s: %w", kind, err)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return Key{}, fmt.Errorf("signature %s: %w", kind, err)
	}
	data := bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})

	h := sha256.New()
	h.Write([]byte(domain(kind)))
	h.Write([]byte{0x00})
	h.Write(data)
	return Key{Kind: kind, Hash: hex.EncodeToString(h.Sum(nil))}, nil
}

func canonical(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool:
		return x, nil
	case string:
		return norm.NFC.String(x), nil
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case float64:
		return canonicalFloat(x)
	case float32:
		return canonicalFloat(float64(x))
	case fmt.Stringer:
		return norm.NFC.String(x.String()), nil
	case []float64:
		out := make([]any, len(x))
		for i, f := range x {
			c, err := canonicalFloat(f)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = norm.NFC.String(s)
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]any, len(x))
		for _, k := range keys {
			nk := norm.NFC.String(k)
			if _, dup := out[nk]; dup {
				return nil, fmt.Errorf("%w: key %q collides after normalisation", ErrUnsupported, k)
			}
			c, err := canonical(x[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[nk] = c
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
}

// Floats become strings so the encoder never picks its own formatting.
func canonicalFloat(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, f)
	}
	if f == 0 {
		f = 0 // folds -0
	}
	return strconv.FormatFloat(f, 'e', precision-1, 64), nil
}
