package core

// Logger is any leveled logger the app services can report through.
// args may carry an error, a map of extras, or a profile to tag the event with.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
