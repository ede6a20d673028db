package models

// ListType is the roster list an entrant is shown in.
type ListType string

const (
	ListParticipant ListType = "participant"
	ListStandby     ListType = "standby"
)

func (l ListType) Valid() bool {
	return l == ListParticipant || l == ListStandby
}

type EntrantSource string

const (
	SourceManual   EntrantSource = "manual"
	SourceExternal EntrantSource = "external"
)

// Entrant is a participant or standby person. OriginalListType records the
// list the entrant was created in and never changes afterwards.
type Entrant struct {
	ID               int           `json:"id"`
	DisplayName      string        `json:"display_name"`
	ListType         ListType      `json:"list_type"`
	OriginalListType ListType      `json:"original_list_type"`
	Source           EntrantSource `json:"source"`
	ExternalRef      string        `json:"external_ref,omitempty"`
	Eligible         bool          `json:"eligible"`
}

// InGame reports whether a standby entrant has been pulled into play.
func (e *Entrant) InGame() bool {
	return e.OriginalListType == ListStandby && e.ListType != ListStandby
}

func (e *Entrant) IsExternal() bool {
	return e.Source == SourceExternal
}
