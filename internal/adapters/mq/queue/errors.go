package queue

import "errors"

// ErrRejected is reported by callers when Enqueue refuses a job.
var ErrRejected = errors.New("job rejected by queue")
