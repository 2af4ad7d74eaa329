// Package logger provides named, leveled loggers with a uniform output
// format ("LEVEL | name  | message"). Every package obtains its logger via
// GetLogger(name); log levels can be changed globally with SetLevelAll,
// typically from the CLI's log-level flag.
package logger
