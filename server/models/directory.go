package models

// Directory exposes the read-only queries the form-level checks need,
// satisfying people.Directory.
type Directory struct{}

func (Directory) PersonExists(username string) (bool, error) {
	return PersonExists(username)
}

func (Directory) RelationshipExists(username, relativeUsername string) (bool, error) {
	return RelationshipExistsBetween(username, relativeUsername)
}
