package command

import (
	"strconv"
	"strings"
)

// BrokerError is a remote exception as carried by ConnectionError and
// ExceptionResponse. StackTrace and Cause are only transmitted when stack
// traces are enabled on the connection.
type BrokerError struct {
	ExceptionClass string
	Message        string
	StackTrace     []StackTraceElement
	Cause          *BrokerError
}

type StackTraceElement struct {
	ClassName  string
	MethodName string
	FileName   string
	LineNumber int32
}

func (e *BrokerError) Error() string {
	if e.Message == "" {
		return e.ExceptionClass
	}
	if e.ExceptionClass == "" {
		return e.Message
	}
	return e.ExceptionClass + ": " + e.Message
}

func (e *BrokerError) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

// StackTraceString formats the trace the way the broker logs it.
func (e *BrokerError) StackTraceString() string {
	var b strings.Builder
	for err := e; err != nil; err = err.Cause {
		if err != e {
			b.WriteString("Caused by: ")
		}
		b.WriteString(err.Error())
		b.WriteByte('\n')
		for _, el := range err.StackTrace {
			b.WriteString("\tat ")
			b.WriteString(el.ClassName)
			b.WriteByte('.')
			b.WriteString(el.MethodName)
			b.WriteByte('(')
			b.WriteString(el.FileName)
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(int(el.LineNumber)))
			b.WriteString(")\n")
		}
	}
	return b.String()
}
