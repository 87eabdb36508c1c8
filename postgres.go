package dberrors

// postgresCodeKeys looks up the full SQLSTATE, then its two character class.
func postgresCodeKeys(n NativeError) (codes, classes []string) {
	if n.Code == "" {
		return nil, nil
	}

	return []string{n.Code}, sqlStateClass(n.Code)
}

func sqlStateClass(state string) []string {
	if !sqlStatePattern.MatchString(state) {
		return nil
	}

	return []string{state[:2]}
}
