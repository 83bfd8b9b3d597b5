package main

// Exit codes
const (
	ExitSuccess         = 0 // Success
	ExitError           = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError     = 2 // Configuration error (unreadable config file, invalid values)
	ExitValidationError = 3 // One or more fields failed validation
	ExitDuplicate       = 4 // Mobile number already stored
	ExitNotFound        = 5 // No record with that mobile number
	ExitStorageError    = 6 // Database or image storage unavailable
)
