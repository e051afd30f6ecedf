package error

// Typed errors distinguish caller faults from missing resources so the
// router can pick the HTTP status by type assertion.

type ValidationError string

func (e ValidationError) Error() string { return string(e) }

type NotFoundError string

func (e NotFoundError) Error() string { return string(e) }

type UnauthorizedError string

func (e UnauthorizedError) Error() string { return string(e) }
