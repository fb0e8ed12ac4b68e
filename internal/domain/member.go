package domain

// Member is someone work can be assigned to. Members are not part of the
// timeline tree; they back assignee search.
type Member struct {
	ID         string
	Name       string
	Email      string
	Role       string
	Department string
}

func (m *Member) Validate() error {
	if trimID(m.Name) == "" {
		return Required("name")
	}
	return nil
}
