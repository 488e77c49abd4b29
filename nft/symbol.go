package nft

import (
	"fmt"
	"strings"
)

const SymbolMaxLength = 32

// NormalizeSymbol trims and uppercases s and checks it against the short
// symbol alphabet the minting clients use for titles and image ids.
func NormalizeSymbol(s string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(s))
	if sym == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidSymbol)
	}
	if len(sym) > SymbolMaxLength {
		return "", fmt.Errorf("%w: %d bytes", ErrInvalidSymbol, len(sym))
	}
	for _, c := range sym {
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return "", fmt.Errorf("%w: character %q", ErrInvalidSymbol, c)
		}
	}
	return sym, nil
}
