package models

type TeamMember struct {
	ID          int    `json:"id"`
	DisplayName string `json:"display_name"`
}

type Team struct {
	ID      int          `json:"id"`
	Name    string       `json:"name"`
	Members []TeamMember `json:"members"`
}

// MemberIndex returns the roster position of entrantID in the team, or -1.
func (t *Team) MemberIndex(entrantID int) int {
	for i, m := range t.Members {
		if m.ID == entrantID {
			return i
		}
	}
	return -1
}

func (t *Team) MemberIDs() []int {
	ids := make([]int, len(t.Members))
	for i, m := range t.Members {
		ids[i] = m.ID
	}
	return ids
}
