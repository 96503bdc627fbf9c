package main

// Exported for black-box tests.
var (
	Run          = run
	NewGenerator = newGenerator
	Serve        = serve
)
