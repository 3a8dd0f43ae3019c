package inkwell

// Role determines what a user is allowed to do. Guests can only read
// public content; admins moderate the publication workflow.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// Visibility applies to works and to a user's collection as a whole.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`

	// CollectionVisibility controls whether the user's refined samples
	// and works are discoverable by others.
	CollectionVisibility Visibility `json:"collectionVisibility"`
	CollectedWorkIDs     []string   `json:"collectedWorkIds,omitempty"`

	CreatedAt int64 `json:"createdAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) Clone() User {
	clone := u
	if u.CollectedWorkIDs != nil {
		clone.CollectedWorkIDs = make([]string, len(u.CollectedWorkIDs))
		copy(clone.CollectedWorkIDs, u.CollectedWorkIDs)
	}
	return clone
}
