package repository

import "codeclass/internal/database"

// ErrSetupRequired is returned when the store is missing tables or denies
// access. Callers route it to the setup-required screen.
var ErrSetupRequired = database.ErrSetupRequired
