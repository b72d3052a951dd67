package session

// Source tells a caller who, if anyone, is signed in.
type Source interface {
	Owner() (userID string, ok bool)
}

// Bind returns a Source that follows the session with the given id: once the
// session ends, Owner reports no one.
func (s *Store) Bind(id string) Source {
	return bound{store: s, id: id}
}

type bound struct {
	store *Store
	id    string
}

func (b bound) Owner() (string, bool) {
	sess, ok := b.store.Get(b.id)
	if !ok || sess.UserID == "" {
		return "", false
	}
	return sess.UserID, true
}

// Static is a fixed Source, used where the owner is already known.
type Static string

func (s Static) Owner() (string, bool) {
	return string(s), s != ""
}
