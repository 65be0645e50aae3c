package model

// DefaultCategories is used whenever the stored category set is empty.
var DefaultCategories = []string{"Personal", "Work", "Health"}

// IndexOf returns the position of name in categories, or -1.
func IndexOf(categories []string, name string) int {
	for i, c := range categories {
		if c == name {
			return i
		}
	}
	return -1
}

// HasCategory reports whether name is an exact member of categories.
func HasCategory(categories []string, name string) bool {
	return IndexOf(categories, name) >= 0
}
