// Package repository contains the Person persistence abstractions.
// Persistence is remote: implementations live in subpackages (e.g., httpapi)
// and talk to the Command and Query APIs.
package repository

import "errors"

// ErrNotFound is returned when the remote API has no person with the given id.
var ErrNotFound = errors.New("person not found")
