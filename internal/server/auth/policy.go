package auth

// CanDelete reports whether requester may delete a resource owned by
// ownerID: the owner and administrators may, nobody else.
func CanDelete(requester Identity, ownerID int64) bool {
	return requester.UserID == ownerID || requester.IsAdmin
}
