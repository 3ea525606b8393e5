package properties

// Action tells what happened to a declaration.
type Action uint8

const (
	ActionOverridden Action = iota + 1 // dropped, later declaration wins
	ActionMerged                       // value moved into a shorthand
	ActionFolded                       // longhands replaced with new shorthand
)

func (a Action) String() string {
	switch a {
	case ActionOverridden:
		return "overridden"
	case ActionMerged:
		return "merged"
	case ActionFolded:
		return "folded"
	}
	return "kept"
}

// Decision records single elimination made by the passes.
type Decision struct {
	Action      Action
	Declaration string // serialized eliminated declaration
	By          string // property which took over
}

type recorder struct {
	decisions []Decision
}

func (r *recorder) add(a Action, d *Declaration, by string) {
	if r == nil {
		return
	}
	r.decisions = append(r.decisions, Decision{Action: a, Declaration: d.String(), By: by})
}
