package miniscript

// Version of the interpreter.
const Version = "0.4.0"

// BuildDate may be overridden at link time.
var BuildDate = "unknown"
