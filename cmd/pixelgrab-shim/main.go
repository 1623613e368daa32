package main

// Entry point for -buildmode=c-shared; all behavior lives in the
// //export functions across this package's other files.
func main() {}
