package migration

import "fmt"

// inlineSource is the file label used for sources that did not come from disk.
const inlineSource = "inline"

// MigrationParseError is returned when a migration file cannot be read or is
// not valid PHP. It never describes a schema problem.
type MigrationParseError struct {
	File   string
	Reason string
	Err    error
}

func (e *MigrationParseError) Error() string {
	return fmt.Sprintf("failed to parse migration '%s': %s", e.File, e.Reason)
}

func (e *MigrationParseError) Unwrap() error {
	return e.Err
}
