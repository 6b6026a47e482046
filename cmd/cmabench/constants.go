package main

import "os"

const (
	dirPerm = os.FileMode(0o755)

	// Report layout
	variantColumnWidth = 24
	timingColumnWidth  = 16
)
