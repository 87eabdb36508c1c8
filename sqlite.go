package dberrors

import (
	"strconv"
)

// sqlite result codes keep the primary code in the low byte.
const sqlitePrimaryMask = 0xff

// sqliteCodeKeys looks up the extended result code, then the primary code.
// Messages without a code rely on patterns alone.
func sqliteCodeKeys(n NativeError) (codes, classes []string) {
	if n.Errno <= 0 {
		return nil, nil
	}

	codes = []string{strconv.Itoa(n.Errno)}

	if primary := n.Errno & sqlitePrimaryMask; primary != n.Errno {
		codes = append(codes, strconv.Itoa(primary))
	}

	return codes, nil
}
