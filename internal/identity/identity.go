// ABOUTME: Deterministic article identity derived from URLs and feed identifiers
// ABOUTME: Produces RFC-4122 v5 UUIDs so cache keys are stable across runs and platforms

package identity

import "github.com/google/uuid"

// ForSeed derives a version 5 UUID in the URL namespace from the given seed.
// The same seed always yields the same ID, across process restarts.
func ForSeed(seed string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed))
}

// ForItem assigns an identity to a feed item. A declared guid that is already
// a well-formed UUID is used verbatim; any other non-empty guid string is
// hashed; with no guid at all, the article link is hashed as the last resort.
func ForItem(guid, link string) uuid.UUID {
	if guid != "" {
		if id, err := uuid.Parse(guid); err == nil {
			return id
		}
		return ForSeed(guid)
	}
	return ForSeed(link)
}
