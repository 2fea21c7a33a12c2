package cartsession

// UserSwitched is emitted when an identity transition moves a cart between
// keys, typically a guest cart being claimed at login. Consumed by
// analytics/audit collaborators.
type UserSwitched struct {
	OldKey string `json:"old_key"`
	NewKey string `json:"new_key"`
}
