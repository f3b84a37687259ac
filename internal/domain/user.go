package domain

// User represents the account acting on a prompt
type User struct {
	ID        string
	Name      string
	IsBot     bool
	IsWebhook bool
	// RoleIDs is empty on platforms without roles
	RoleIDs []string
}

// HasRole reports whether the user holds any role in roleIDs
func (u User) HasRole(roleIDs map[string]struct{}) bool {
	for _, id := range u.RoleIDs {
		if _, ok := roleIDs[id]; ok {
			return true
		}
	}
	return false
}
