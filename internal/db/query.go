package db

// EscapeTag escapes a value for use inside an FT.SEARCH {tag} clause.
func EscapeTag(v string) string {
	out := make([]byte, 0, len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch c {
		case ' ', ',', '.', '<', '>', '{', '}', '[', ']', '"', '\'', ':', ';',
			'!', '@', '#', '$', '%', '^', '&', '*', '(', ')', '-', '+', '=',
			'~', '|', '/', '\\':
			out = append(out, '\\', c)
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
