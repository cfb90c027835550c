package repository

import "errors"

// ErrNotFound is returned when a queried record does not exist
var ErrNotFound = errors.New("record not found")

// timeLayout keeps stored timestamps fixed-width so text ordering matches time ordering
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
