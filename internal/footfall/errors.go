package footfall

import "errors"

// Error taxonomy for analysis runs. Configuration errors fail before any
// stage runs; data errors abort the current run but leave previously
// completed artifacts untouched. Category shortfalls are not errors: they
// are carried as warnings on the selection result.
var (
	ErrConfig = errors.New("configuration error")
	ErrData   = errors.New("data error")
)
