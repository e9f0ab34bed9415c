package operation

import (
	"fmt"
	"strings"
)

// Family is the token family an operation acts on.
type Family string

const (
	NFT Family = "nft"
	FT  Family = "ft"
)

func (f Family) Valid() bool {
	return f == NFT || f == FT
}

func (f Family) Upper() string {
	return strings.ToUpper(string(f))
}

// Kind is the mutating operation performed against a contract.
type Kind string

const (
	Mint     Kind = "mint"
	Transfer Kind = "transfer"
)

func (k Kind) Valid() bool {
	return k == Mint || k == Transfer
}

// Function returns the contract function name invoked for the
// family/kind pair, e.g. mint_sample_nft.
func Function(family Family, kind Kind) string {
	return fmt.Sprintf("%s_sample_%s", kind, family)
}

// ParseFunction is the inverse of Function.
func ParseFunction(name string) (Family, Kind, error) {
	for _, family := range []Family{NFT, FT} {
		for _, kind := range []Kind{Mint, Transfer} {
			if name == Function(family, kind) {
				return family, kind, nil
			}
		}
	}

	return "", "", fmt.Errorf("function %q is not allowed", name)
}
