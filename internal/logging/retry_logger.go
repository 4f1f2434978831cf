package logging

// RetryLogger adapts Logger to retryablehttp.LeveledLogger.
// Info and Debug chatter from the retry loop goes to debug level.
type RetryLogger struct {
	L *Logger
}

func (r RetryLogger) Error(msg string, keysAndValues ...interface{}) {
	r.L.Error().Fields(keysAndValues).Msg("[retry] " + msg)
}

func (r RetryLogger) Warn(msg string, keysAndValues ...interface{}) {
	r.L.Warn().Fields(keysAndValues).Msg("[retry] " + msg)
}

func (r RetryLogger) Info(msg string, keysAndValues ...interface{}) {
	r.L.Debug().Fields(keysAndValues).Msg("[retry] " + msg)
}

func (r RetryLogger) Debug(msg string, keysAndValues ...interface{}) {
	r.L.Debug().Fields(keysAndValues).Msg("[retry] " + msg)
}
