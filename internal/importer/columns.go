package importer

import "strings"

// Row is one spreadsheet row keyed by its original header names. Values stay
// loosely typed: the upstream tabular parser may yield strings, numbers, or
// native timestamps depending on the cell format.
type Row map[string]any

// columnSpec names the keyword variants a header may carry for one canonical
// field. Strict fields match on normalized equality (short tokens like "cin"
// would otherwise fire inside unrelated headers); free-form fields match on
// normalized containment. The first header that matches wins.
type columnSpec struct {
	keywords []string
	strict   bool
}

func (spec columnSpec) match(headers []string) (string, bool) {
	for _, h := range headers {
		n := normalizeKey(h)
		if n == "" {
			continue
		}
		for _, kw := range spec.keywords {
			if spec.strict {
				if n == kw {
					return h, true
				}
			} else if strings.Contains(n, kw) {
				return h, true
			}
		}
	}
	return "", false
}
