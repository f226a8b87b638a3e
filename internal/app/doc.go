// Package app contains the application services that sit between the HTTP
// handlers and the domain repositories: the credential service (register,
// login, token verification) and the session service (CRUD with ownership
// enforcement and the two listings).
package app
