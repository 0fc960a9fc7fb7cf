package main

// Exit codes. CI distinguishes configuration mistakes from empty results
// and from a missing injection target.
const (
	ExitSuccess       = 0 // Success
	ExitError         = 1 // General error (invalid arguments, runtime failure)
	ExitNoQueries     = 2 // No query terms configured
	ExitNoResults     = 3 // Queries ran but returned no records
	ExitTargetMissing = 4 // Injection target file missing
)
