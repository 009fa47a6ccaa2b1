package core

// Persisted key layout. Both keys live in the same namespace of the
// KeyValueStore, so a store can be shared with other data without clashing.
const (
	UserKeyPrefix  = "whatif_user_"
	CurrentUserKey = "whatif_current_user"
)

// UserKey returns the storage key of the account record for username.
// Usernames are case-sensitive and used as-is.
func UserKey(username string) string {
	return UserKeyPrefix + username
}
