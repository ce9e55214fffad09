package twofainfra

import "github.com/Abraxas-365/gatekeeper/pkg/errx"

var twofaErrors = errx.NewRegistry("TWOFA_REDIS")

var (
	ErrWrite     = twofaErrors.Register("WRITE", errx.TypeExternal, 500, "Redis write failed")
	ErrRead      = twofaErrors.Register("READ", errx.TypeExternal, 500, "Redis read failed")
	ErrMarshal   = twofaErrors.Register("MARSHAL", errx.TypeInternal, 500, "Failed to marshal challenge")
	ErrUnmarshal = twofaErrors.Register("UNMARSHAL", errx.TypeInternal, 500, "Failed to unmarshal challenge")
)
