package employee

// UpsertRequest carries the mutable profile fields. Update replaces all
// three, so title and current_task may be sent empty.
type UpsertRequest struct {
	Name        string `json:"name"         form:"name"         validate:"required,max=255"`
	Title       string `json:"title"        form:"title"        validate:"max=255"`
	CurrentTask string `json:"current_task" form:"current_task" validate:"max=255"`
}
