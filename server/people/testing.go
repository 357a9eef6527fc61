package people

// DirectoryStub is a canned Directory for tests.
type DirectoryStub struct {
	ExistingUsernames     []string
	ExistingRelationships [][2]string
	PersonExistsError     error
	RelationshipError     error
}

func (directory DirectoryStub) PersonExists(username string) (bool, error) {
	if directory.PersonExistsError != nil {
		return false, directory.PersonExistsError
	}

	for _, existing := range directory.ExistingUsernames {
		if existing == username {
			return true, nil
		}
	}

	return false, nil
}

func (directory DirectoryStub) RelationshipExists(username, relativeUsername string) (bool, error) {
	if directory.RelationshipError != nil {
		return false, directory.RelationshipError
	}

	for _, pair := range directory.ExistingRelationships {
		if (pair[0] == username && pair[1] == relativeUsername) ||
			(pair[0] == relativeUsername && pair[1] == username) {
			return true, nil
		}
	}

	return false, nil
}
