package controller

// Message types.
type estimationMsg struct {
	total int
	files int
	items []fileItem
	err   error
}

// List item types.
type fileItem struct {
	path  string
	count int
	note  string
}

func (f fileItem) FilterValue() string {
	return f.path
}
