package blog

// Actor is the user on whose behalf a workflow call runs. The zero value is
// an anonymous visitor.
type Actor struct {
	ID       int64
	Username string
}

// Anonymous reports whether no user is logged in.
func (a Actor) Anonymous() bool {
	return a.ID == 0
}

func requireActor(a Actor) error {
	if a.Anonymous() {
		return Unauthorized("You must be logged in to do that.")
	}
	return nil
}
