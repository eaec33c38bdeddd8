package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// RefKind identifies which extraction strategy handles a source reference.
type RefKind string

// Recognized source reference kinds.
const (
	RefKindHTTP    RefKind = "http"
	RefKindDropbox RefKind = "dropbox"
	RefKindObject  RefKind = "r2"
)

// objectScheme is the URI scheme used for object-storage references
// (Cloudflare R2 or any S3-compatible store).
const objectScheme = "r2"

// SourceRef is a tagged location describing where a job's source document
// lives. The kind determines which extraction strategy is invoked.
type SourceRef struct {
	Kind     RefKind `json:"kind"`
	Location string  `json:"location"`
}

// ParseSourceRef validates a raw location string and returns the tagged
// reference for it. Accepted forms are http(s) URLs (Dropbox share links
// are tagged separately so the extractor can normalize them) and
// r2://bucket/key object-storage references. Anything else fails with
// ErrInvalidReference.
func ParseSourceRef(location string) (SourceRef, error) {
	if strings.TrimSpace(location) == "" {
		return SourceRef{}, fmt.Errorf("%w: empty location", ErrInvalidReference)
	}

	u, err := url.Parse(location)
	if err != nil {
		return SourceRef{}, fmt.Errorf("%w: %q is not a valid URL", ErrInvalidReference, location)
	}

	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return SourceRef{}, fmt.Errorf("%w: %q has no host", ErrInvalidReference, location)
		}
		if isDropboxHost(u.Host) {
			return SourceRef{Kind: RefKindDropbox, Location: location}, nil
		}
		return SourceRef{Kind: RefKindHTTP, Location: location}, nil

	case objectScheme:
		// r2://bucket/key — both parts required.
		if u.Host == "" || strings.Trim(u.Path, "/") == "" {
			return SourceRef{}, fmt.Errorf(
				"%w: %q must be of the form r2://bucket/key", ErrInvalidReference, location)
		}
		return SourceRef{Kind: RefKindObject, Location: location}, nil

	default:
		return SourceRef{}, fmt.Errorf(
			"%w: unsupported scheme %q in %q", ErrInvalidReference, u.Scheme, location)
	}
}

// ObjectParts splits an object-storage reference into bucket and key.
// Returns an error if the reference is not an r2:// location.
func (r SourceRef) ObjectParts() (bucket, key string, err error) {
	u, err := url.Parse(r.Location)
	if err != nil || u.Scheme != objectScheme {
		return "", "", fmt.Errorf("%w: %q is not an object-storage reference",
			ErrInvalidReference, r.Location)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

func isDropboxHost(host string) bool {
	host = strings.ToLower(host)
	return host == "dropbox.com" ||
		strings.HasSuffix(host, ".dropbox.com") ||
		strings.HasSuffix(host, ".dropboxusercontent.com")
}
