// Package account implements chirp's account service: signup and login
// orchestration over the store, the password hasher and the token manager,
// plus authenticated profile updates with an optional image upload.
//
// Every operation is stateless between calls; failures map to stable
// sentinel errors that the HTTP layer translates into compatibility
// message strings.
package account
