package search

// ActionType names a transition.
type ActionType string

const (
	TypeInputChange       ActionType = "INPUT_CHANGE"
	TypeSetErrors         ActionType = "SET_ERRORS"
	TypeAddCriterion      ActionType = "ADD_CRITERION"
	TypeRemoveCriterion   ActionType = "REMOVE_CRITERION"
	TypeUpdateWeight      ActionType = "UPDATE_WEIGHT"
	TypeToggleWeightModal ActionType = "TOGGLE_WEIGHT_MODAL"

	TypeUpdateDraft     ActionType = "SEARCH/UPDATE_DRAFT"
	TypeCommitCriteria  ActionType = "SEARCH/COMMIT_CRITERIA"
	TypeRemoveCriteria  ActionType = "SEARCH/REMOVE_CRITERIA"
	TypeUpdateCriteria  ActionType = "SEARCH/UPDATE_WEIGHT"
	TypeShowWeightModal ActionType = "SEARCH/SHOW_WEIGHT_MODAL"
	TypeHideWeightModal ActionType = "SEARCH/HIDE_WEIGHT_MODAL"
)

// Action is the closed set of transitions accepted by Reduce.
type Action interface {
	Type() ActionType
	action()
}

type (
	// InputChange replaces the free-text input.
	InputChange struct{ Text string }
	// SetErrors replaces the error list.
	SetErrors struct{ Errors []string }
	// AddCriterion appends a criterion and clears the input.
	AddCriterion struct{ Criterion Criterion }
	// RemoveCriterion drops the criterion at Index.
	RemoveCriterion struct{ Index int }
	// UpdateWeight merges Weight under Criterion into the weights map.
	UpdateWeight struct {
		Criterion string
		Weight    float64
	}
	// ToggleWeightModal flips the modal flag and selects Criterion.
	ToggleWeightModal struct{ Criterion string }

	// UpdateDraft replaces the draft text.
	UpdateDraft struct{ Text string }
	// CommitCriteria appends a criterion and clears the draft.
	CommitCriteria struct{ Criterion Criterion }
	// RemoveCriteria drops the criterion with the positional ID.
	RemoveCriteria struct{ ID int }
	// UpdateCriteriaWeight sets the weight of the attribute of the criterion with positional ID.
	UpdateCriteriaWeight struct {
		ID     int
		Weight float64
	}
	// ShowWeightModal opens the weight modal for Criterion.
	ShowWeightModal struct{ Criterion string }
	// HideWeightModal closes the weight modal.
	HideWeightModal struct{}

	// Unknown carries a type Reduce does not recognise. It is an identity transition.
	Unknown struct{ Name string }
)

func (InputChange) Type() ActionType          { return TypeInputChange }
func (SetErrors) Type() ActionType            { return TypeSetErrors }
func (AddCriterion) Type() ActionType         { return TypeAddCriterion }
func (RemoveCriterion) Type() ActionType      { return TypeRemoveCriterion }
func (UpdateWeight) Type() ActionType         { return TypeUpdateWeight }
func (ToggleWeightModal) Type() ActionType    { return TypeToggleWeightModal }
func (UpdateDraft) Type() ActionType          { return TypeUpdateDraft }
func (CommitCriteria) Type() ActionType       { return TypeCommitCriteria }
func (RemoveCriteria) Type() ActionType       { return TypeRemoveCriteria }
func (UpdateCriteriaWeight) Type() ActionType { return TypeUpdateCriteria }
func (ShowWeightModal) Type() ActionType      { return TypeShowWeightModal }
func (HideWeightModal) Type() ActionType      { return TypeHideWeightModal }
func (u Unknown) Type() ActionType            { return ActionType(u.Name) }

func (InputChange) action()          {}
func (SetErrors) action()            {}
func (AddCriterion) action()         {}
func (RemoveCriterion) action()      {}
func (UpdateWeight) action()         {}
func (ToggleWeightModal) action()    {}
func (UpdateDraft) action()          {}
func (CommitCriteria) action()       {}
func (RemoveCriteria) action()       {}
func (UpdateCriteriaWeight) action() {}
func (ShowWeightModal) action()      {}
func (HideWeightModal) action()      {}
func (Unknown) action()              {}

// ChangeInput creates an INPUT_CHANGE action.
func ChangeInput(text string) Action { return InputChange{Text: text} }

// ReplaceErrors creates a SET_ERRORS action.
func ReplaceErrors(errs []string) Action { return SetErrors{Errors: errs} }

// Add creates an ADD_CRITERION action.
func Add(c Criterion) Action { return AddCriterion{Criterion: c} }

// Remove creates a REMOVE_CRITERION action.
func Remove(index int) Action { return RemoveCriterion{Index: index} }

// Weigh creates an UPDATE_WEIGHT action.
func Weigh(criterion string, weight float64) Action {
	return UpdateWeight{Criterion: criterion, Weight: weight}
}

// ToggleModal creates a TOGGLE_WEIGHT_MODAL action.
func ToggleModal(criterion string) Action { return ToggleWeightModal{Criterion: criterion} }

// UpdateDraftCriteria creates a SEARCH/UPDATE_DRAFT action.
func UpdateDraftCriteria(text string) Action { return UpdateDraft{Text: text} }

// Commit creates a SEARCH/COMMIT_CRITERIA action.
func Commit(c Criterion) Action { return CommitCriteria{Criterion: c} }

// RemoveByID creates a SEARCH/REMOVE_CRITERIA action.
func RemoveByID(id int) Action { return RemoveCriteria{ID: id} }

// UpdateCriteriaWeightByID creates a SEARCH/UPDATE_WEIGHT action.
func UpdateCriteriaWeightByID(id int, weight float64) Action {
	return UpdateCriteriaWeight{ID: id, Weight: weight}
}

// ShowModal creates a SEARCH/SHOW_WEIGHT_MODAL action.
func ShowModal(criterion string) Action { return ShowWeightModal{Criterion: criterion} }

// HideModal creates a SEARCH/HIDE_WEIGHT_MODAL action.
func HideModal() Action { return HideWeightModal{} }
