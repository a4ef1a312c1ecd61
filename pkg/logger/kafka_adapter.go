package logger

import (
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaLogger routes kafka-go reader/writer diagnostics to the debug level.
func KafkaLogger(component string) kafka.Logger {
	return kafka.LoggerFunc(func(msg string, args ...interface{}) {
		if log == nil {
			return
		}
		log.Debug(fmt.Sprintf(msg, args...), zap.String("component", component))
	})
}

// KafkaErrorLogger routes kafka-go errors to the error level.
func KafkaErrorLogger(component string) kafka.Logger {
	return kafka.LoggerFunc(func(msg string, args ...interface{}) {
		if log == nil {
			return
		}
		log.Error(fmt.Sprintf(msg, args...), zap.String("component", component))
	})
}
