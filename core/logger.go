package core

// Logger is the application logger.
// args may hold an error, a *http.Request or a map[string]interface{} of extra data.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
