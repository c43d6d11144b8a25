package appctx

import "errors"

var (
	// ErrMissingIdentity is returned when no strategy could extract a party
	// identity from the request. Resolution aborts immediately.
	ErrMissingIdentity = errors.New("appctx: missing identity")

	// ErrMissingTenant is returned when neither the request nor the tenant
	// directory yields a tenant for the resolved party.
	ErrMissingTenant = errors.New("appctx: missing tenant")
)
