package session

// User is the identity the client keeps for the logged-in account.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (u *User) clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

// Snapshot is the durable session as read from the store. Either field may be
// absent.
type Snapshot struct {
	Token string
	User  *User
}

// Complete reports whether both the token and the user record are present.
func (s Snapshot) Complete() bool {
	return s.Token != "" && s.User != nil
}

// View is a read-only projection of [State] handed to subscribers.
type View struct {
	User            *User
	IsAuthenticated bool
	IsLoading       bool
}
