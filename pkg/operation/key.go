package operation

import (
	"fmt"
	"strings"
)

// TrackingKey is the identifier the status endpoint is queried with. It
// is derived from the contract token rather than from the execution
// handle, so at most one operation per family/token/kind can be in
// flight at a time.
func TrackingKey(family Family, token string, kind Kind) string {
	return fmt.Sprintf("%s-%s-%s", family, token, kind)
}

// Key is a parsed tracking key. Family is empty for legacy keys of the
// form <token>-<kind>.
type Key struct {
	Family Family
	Token  string
	Kind   Kind
}

func ParseKey(key string) (*Key, error) {
	i := strings.LastIndex(key, "-")
	if i <= 0 || i == len(key)-1 {
		return nil, fmt.Errorf("invalid tracking key %q", key)
	}

	k := &Key{Token: key[:i], Kind: Kind(key[i+1:])}
	if !k.Kind.Valid() {
		return nil, fmt.Errorf("invalid tracking key %q: unknown kind %q", key, k.Kind)
	}

	if j := strings.Index(k.Token, "-"); j > 0 {
		if family := Family(k.Token[:j]); family.Valid() {
			k.Family = family
			k.Token = k.Token[j+1:]
		}
	}

	return k, nil
}

func (k *Key) String() string {
	if k.Family == "" {
		return fmt.Sprintf("%s-%s", k.Token, k.Kind)
	}
	return TrackingKey(k.Family, k.Token, k.Kind)
}

// Describe renders a human readable label for a tracking key, used in
// failure messages ("NFT mint failed").
func Describe(key string) string {
	k, err := ParseKey(key)
	if err != nil {
		return fmt.Sprintf("operation %s", key)
	}
	if k.Family == "" {
		return string(k.Kind)
	}
	return fmt.Sprintf("%s %s", k.Family.Upper(), k.Kind)
}
