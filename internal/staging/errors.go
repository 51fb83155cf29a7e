package staging

// ApplyError reports that the external apply tool rejected a patch, e.g.
// due to a context mismatch or a concurrent modification. The tool's
// message is preserved verbatim and the working copy is left unchanged.
type ApplyError struct{ Err error }

func (e *ApplyError) Error() string { return e.Err.Error() }
func (e *ApplyError) Unwrap() error { return e.Err }
