package driver

import "strings"

// sanitizeSegment normalizes a manifest identifier (target name,
// feature name, dependency name) to the dash-free form used as a map
// key and cache-directory component, grounded on
// v11/interpreters/go/pkg/driver/loader.go's sanitizeSegment.
func sanitizeSegment(seg string) string {
	seg = strings.TrimSpace(seg)
	seg = strings.ReplaceAll(seg, "-", "_")
	return seg
}
