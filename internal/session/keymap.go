package session

// OptionIndexForKey maps the keyboard shortcuts "1" through "4" to
// option indices 0 through 3. ok is false for any other key or when
// the mapped index falls outside the current question's option count;
// such keys are ignored.
func OptionIndexForKey(key string, optionCount int) (int, bool) {
	var index int
	switch key {
	case "1":
		index = 0
	case "2":
		index = 1
	case "3":
		index = 2
	case "4":
		index = 3
	default:
		return 0, false
	}
	if index >= optionCount {
		return 0, false
	}
	return index, true
}
