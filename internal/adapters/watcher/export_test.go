package watcher

// ConvertOp exposes convertOp for tests.
var ConvertOp = convertOp
