package sessioninfra

import "github.com/Abraxas-365/gatekeeper/pkg/errx"

var sessionErrors = errx.NewRegistry("SESSION_REDIS")

var (
	ErrWrite = sessionErrors.Register("WRITE", errx.TypeExternal, 500, "Redis write failed")
	ErrRead  = sessionErrors.Register("READ", errx.TypeExternal, 500, "Redis read failed")
)
