// Package ecpay implements the ECPay CheckMacValue signature and the AIO checkout form.
package ecpay

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// CheckMacValueKey is the parameter that carries the signature. It never takes part in its own computation.
const CheckMacValueKey = "CheckMacValue"

// Params is an ECPay parameter set. Values are strings or numbers.
type Params map[string]any

// ParamsFromForm converts a form-encoded callback body, keeping the first value of each field.
func ParamsFromForm(form url.Values) Params {
	p := make(Params, len(form))
	for k, v := range form {
		if len(v) > 0 {
			p[k] = v[0]
		} else {
			p[k] = ""
		}
	}
	return p
}

// Strings returns the parameters with every value formatted.
func (p Params) Strings() map[string]string {
	out := make(map[string]string, len(p))
	for k, v := range p {
		out[k] = FormatValue(v)
	}
	return out
}

// Signer computes and verifies CheckMacValue with the merchant's HashKey and HashIV.
type Signer struct {
	hashKey string
	hashIV  string
}

// NewSigner creates a signer.
func NewSigner(hashKey, hashIV string) *Signer {
	return &Signer{hashKey: hashKey, hashIV: hashIV}
}

// CheckMacValue returns the uppercase SHA-256 signature of params.
func (s *Signer) CheckMacValue(params Params) string {
	sum := sha256.Sum256([]byte(s.canonicalize(params)))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Sign sets CheckMacValue on params and returns it.
func (s *Signer) Sign(params Params) string {
	mac := s.CheckMacValue(params)
	params[CheckMacValueKey] = mac
	return mac
}

// Verify recomputes the signature of params and compares it to the received CheckMacValue.
func (s *Signer) Verify(params Params) bool {
	v, ok := params[CheckMacValueKey]
	if !ok {
		return false
	}
	received := FormatValue(v)
	expected := s.CheckMacValue(params)
	return subtle.ConstantTimeCompare([]byte(received), []byte(expected)) == 1
}

var macReplacer = strings.NewReplacer(
	"%2d", "-",
	"%5f", "_",
	"%2e", ".",
	"%21", "!",
	"%2a", "*",
	"%28", "(",
	"%29", ")",
	"%20", "+",
)

// canonicalize builds the string that gets hashed.
func (s *Signer) canonicalize(params Params) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == CheckMacValueKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		li, lj := strings.ToLower(keys[i]), strings.ToLower(keys[j])
		if li != lj {
			return li < lj
		}
		return keys[i] < keys[j]
	})

	var b strings.Builder
	b.WriteString("HashKey=")
	b.WriteString(s.hashKey)
	for _, k := range keys {
		b.WriteByte('&')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(FormatValue(params[k]))
	}
	b.WriteString("&HashIV=")
	b.WriteString(s.hashIV)

	return macReplacer.Replace(strings.ToLower(encodeURIComponent(b.String())))
}

// FormatValue renders a parameter value; numbers use their shortest decimal form.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

const upperhex = "0123456789ABCDEF"

// encodeURIComponent escapes everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ).
// url.QueryEscape differs on space and on ~ ! * ' ( ).
func encodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
