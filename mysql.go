package dberrors

import (
	"strconv"
)

// mysqlCodeKeys looks up the server errno, then the class of the SQLSTATE
// the server sent next to it. Generic states such as HY000 have no class entry.
func mysqlCodeKeys(n NativeError) (codes, classes []string) {
	if n.Errno > 0 {
		codes = []string{strconv.Itoa(n.Errno)}
	}

	return codes, sqlStateClass(n.State)
}
