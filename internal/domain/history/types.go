package history

type EntryType string

const (
	EntrySubmitted    EntryType = "SUBMITTED"
	EntryApproved     EntryType = "APPROVED"
	EntryRejected     EntryType = "REJECTED"
	EntryAutoRejected EntryType = "AUTO_REJECTED"
)

func (t EntryType) Valid() bool {
	switch t {
	case EntrySubmitted, EntryApproved, EntryRejected, EntryAutoRejected:
		return true
	}
	return false
}

type ActorType string

const (
	ActorAdopter ActorType = "ADOPTER"
	ActorShelter ActorType = "SHELTER_USER"
	ActorSystem  ActorType = "SYSTEM"
)
