package storage

// CompletionListFilter pages through a user's completion history, newest
// first. TaskID narrows it to one task.
type CompletionListFilter struct {
	UserID string
	TaskID string
	Limit  int
	Offset int
}
