package domain

// Access policy. The ownership and visibility rules live here, in one
// place, so the lifecycle engine and the file-access gate cannot drift
// apart. Backends that translate these predicates into queries must match
// this definition.

// Owns reports whether userID is the author of the post.
func (p *Post) Owns(userID string) bool {
	return p.AuthorID == userID
}

// VisibleTo reports whether userID may read the post: the author sees all
// of their posts, everyone else sees only published ones.
func (p *Post) VisibleTo(userID string) bool {
	return p.Owns(userID) || p.Status == StatusPublished
}

// GrantsFileAccess reports whether userID may fetch the stored file with
// the given name through this post: the post must be visible to the user
// and carry an image referencing that file.
func (p *Post) GrantsFileAccess(userID, fileName string) bool {
	if !p.VisibleTo(userID) {
		return false
	}
	for i := range p.Images {
		if p.Images[i].FileName == fileName {
			return true
		}
	}
	return false
}
