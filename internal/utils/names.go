package utils

// MaxNameLen is the display width of a column name before it is cut.
const MaxNameLen = 18

// TruncateName shortens long column names for one-line summaries.
func TruncateName(name string) string {
	r := []rune(name)
	if len(r) <= MaxNameLen {
		return name
	}
	return string(r[:MaxNameLen]) + "..."
}
