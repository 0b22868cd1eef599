package services

// ActionKind names the change a vote request makes to the ledger.
type ActionKind string

const (
	ActionNone   ActionKind = "none"
	ActionInsert ActionKind = "insert"
	ActionUpdate ActionKind = "update"
	ActionDelete ActionKind = "delete"
)

// Action is the outcome of reconciling a prior vote with a new request.
// Value is what the ledger holds afterwards (0 for no record) and Delta the
// change to the item's signed sum.
type Action struct {
	Kind  ActionKind
	Value int
	Delta int
}

// Reconcile decides the ledger change for a user who currently holds prior
// (0 meaning no record) and asks for requested. Both must be in {-1, 0, 1}.
//
//	prior  requested  action
//	none   0          none
//	none   ±1         insert requested
//	v      0          delete
//	v      v          none
//	v      v'         update to v'
func Reconcile(prior, requested int) Action {
	a := Action{Value: requested, Delta: requested - prior}

	switch {
	case prior == requested:
		a.Kind = ActionNone
	case prior == 0:
		a.Kind = ActionInsert
	case requested == 0:
		a.Kind = ActionDelete
	default:
		a.Kind = ActionUpdate
	}
	return a
}
