package organization

// Unit is an organizational unit discovered under the organization root.
type Unit struct {
	ID       string
	Name     string
	ARN      string // as reported by the listing; may be empty
	ParentID string
	Depth    int // 1 for direct children of the root
}

func (u Unit) String() string {
	return u.Name + " (" + u.ID + ")"
}

// Children groups units by parent ID, preserving input order.
func Children(units []Unit) map[string][]Unit {
	byParent := make(map[string][]Unit)
	for _, u := range units {
		byParent[u.ParentID] = append(byParent[u.ParentID], u)
	}
	return byParent
}
