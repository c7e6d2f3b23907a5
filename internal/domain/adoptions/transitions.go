package adoptions

// submit crea la solicitud en pending; desde ahí solo hay una decisión.
var allowedTransitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: nil,
	StatusRejected: nil,
}

func (s Status) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

func (s Status) Terminal() bool {
	return s.Valid() && len(allowedTransitions[s]) == 0
}

func CanTransition(from, to Status) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
