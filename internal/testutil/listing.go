package testutil

import (
	"fmt"
	"sort"
	"strings"
)

// Listing renders an `nm -n` style listing with one begin/end marker pair per
// module. Each module occupies size bytes; modules are laid out back to back
// from base in name order, with an unrelated symbol inside each region.
func Listing(base uint64, sizes map[string]uint64) string {
	names := make([]string, 0, len(sizes))
	for name := range sizes {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	addr := base
	for _, name := range names {
		fmt.Fprintf(&b, "%016x T caml%s__code_begin\n", addr, name)
		fmt.Fprintf(&b, "%016x T caml%s__entry\n", addr, name)
		addr += sizes[name]
		fmt.Fprintf(&b, "%016x T caml%s__code_end\n", addr, name)
	}
	return b.String()
}
