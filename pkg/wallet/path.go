package wallet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tyler-smith/go-bip32"
)

// DefaultPath is the first Ethereum account of BIP-44 coin type 60.
const DefaultPath = "m/44'/60'/0'/0/0"

// Path is a parsed BIP-32 derivation path. Hardened indices carry the
// bip32.FirstHardenedChild offset.
type Path []uint32

// ParsePath accepts "m/44'/60'/0'/0/0" style paths; "h" and "H" are accepted
// as hardened markers too.
func ParsePath(raw string) (Path, error) {
	raw = strings.TrimSpace(raw)
	segments := strings.Split(raw, "/")
	if len(segments) == 0 || segments[0] != "m" {
		return nil, fmt.Errorf("%w: %q must start with m", ErrInvalidPath, raw)
	}
	out := make(Path, 0, len(segments)-1)
	for _, seg := range segments[1:] {
		hardened := false
		if n := len(seg); n > 0 && (seg[n-1] == '\'' || seg[n-1] == 'h' || seg[n-1] == 'H') {
			hardened = true
			seg = seg[:n-1]
		}
		if seg == "" || (len(seg) > 1 && seg[0] == '0') {
			return nil, fmt.Errorf("%w: bad segment in %q", ErrInvalidPath, raw)
		}
		idx, err := strconv.ParseUint(seg, 10, 32)
		if err != nil || uint32(idx) >= bip32.FirstHardenedChild {
			return nil, fmt.Errorf("%w: index out of range in %q", ErrInvalidPath, raw)
		}
		if hardened {
			idx += uint64(bip32.FirstHardenedChild)
		}
		out = append(out, uint32(idx))
	}
	return out, nil
}

func (p Path) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, idx := range p {
		b.WriteByte('/')
		if idx >= bip32.FirstHardenedChild {
			b.WriteString(strconv.FormatUint(uint64(idx-bip32.FirstHardenedChild), 10))
			b.WriteByte('\'')
			continue
		}
		b.WriteString(strconv.FormatUint(uint64(idx), 10))
	}
	return b.String()
}
