// Package media recovers the external media host's asset identifier from a
// delivery URL so the asset can be destroyed when an event's image is
// replaced or removed.
package media

import (
	"path"
	"regexp"
	"strings"
)

// uploadMarker precedes the versioned asset path in host delivery URLs.
const uploadMarker = "/upload/"

var (
	// versionSegment matches a whole path segment like "v1678888888".
	versionSegment = regexp.MustCompile(`^v\d+$`)
	// versionPrefix matches a version segment with its trailing slash, for
	// the versionless fallback which strips by substring rather than by
	// segment position.
	versionPrefix = regexp.MustCompile(`v\d+/`)
)

// PublicIDFromURL extracts the host's public identifier from a delivery URL.
// The identifier is the folder-prefixed base name of the asset: every path
// segment after the version segment, with the file extension stripped from
// the last segment only.
//
// The second return value is false when the URL does not contain the upload
// marker and no identifier can be recovered. The function never fails in any
// other way; callers treat a false result as "skip the external deletion".
func PublicIDFromURL(rawURL string) (string, bool) {
	_, rest, found := strings.Cut(rawURL, uploadMarker)
	if !found {
		return "", false
	}

	segments := strings.Split(rest, "/")
	idSegments := segmentsAfterVersion(segments)
	if idSegments == nil {
		// No version segment: treat everything after the marker as the
		// identifier, removing one version-like substring if present.
		idSegments = strings.Split(versionPrefix.ReplaceAllString(rest, ""), "/")
	}

	last := idSegments[len(idSegments)-1]
	idSegments[len(idSegments)-1] = strings.TrimSuffix(last, path.Ext(last))
	id := strings.Join(idSegments, "/")
	if id == "" {
		return "", false
	}
	return id, true
}

// segmentsAfterVersion returns the segments strictly after the first version
// segment, or nil when no version segment is followed by at least one segment.
func segmentsAfterVersion(segments []string) []string {
	for i, seg := range segments {
		if versionSegment.MatchString(seg) {
			if i+1 >= len(segments) {
				return nil
			}
			out := make([]string, len(segments[i+1:]))
			copy(out, segments[i+1:])
			return out
		}
	}
	return nil
}
