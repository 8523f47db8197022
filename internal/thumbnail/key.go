package thumbnail

import "strings"

// ThumbnailKey inserts suffix before the extension of key's last path
// element: "photo.png" becomes "photo-thumbnail.png" and "archive.tar.gz"
// becomes "archive.tar-thumbnail.gz". A key without an extension gets the
// suffix appended. An existing suffix is not detected, so feeding a
// thumbnail key back in adds a second one.
func ThumbnailKey(key, suffix string) string {
	stem, ext := splitExt(key)
	return stem + suffix + ext
}

// splitExt splits at the last '.' of the final path element. Leading dots
// of that element never start an extension, so ".profile" has none.
func splitExt(key string) (stem, ext string) {
	base := key[strings.LastIndex(key, "/")+1:]
	dot := strings.LastIndex(base, ".")
	leading := len(base) - len(strings.TrimLeft(base, "."))
	if dot < leading {
		return key, ""
	}
	cut := len(key) - len(base) + dot
	return key[:cut], key[cut:]
}
