// Package errors provides the coded error type used across rpg-sheet.
//
// Errors carry a Code, a user-facing Message, an optional Cause and
// free-form metadata. Codes survive wrapping, so a repository can return
// NotFound and the HTTP layer can still map it to a 404 several layers up.
//
// # Basic Usage
//
//	err := errors.NotFound("character not found").
//	    WithMeta("character_id", id)
//
//	if err := store.Put(ctx, key, blob); err != nil {
//	    return errors.Wrap(err, "failed to persist spells")
//	}
//
//	if errors.IsNotFound(err) {
//	    // dangling reference, render as absent
//	}
//
// # Validation
//
// Config structs validate their dependencies with the builder:
//
//	vb := errors.NewValidationBuilder()
//	if cfg.Store == nil {
//	    vb.RequiredField("Store")
//	}
//	return vb.Build()
//
// # Layer guidelines
//
// Repositories return NotFound / AlreadyExists / PermissionDenied and wrap
// driver errors. Orchestrators validate input (InvalidArgument) and wrap
// repository errors with context. The HTTP layer maps codes with
// Code.HTTPStatus and never leaks causes to public callers.
//
// Rejected game actions (casting without enough MP, spending an empty coin
// purse) are not errors at all; they are reported as applied=false.
package errors
