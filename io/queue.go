package io

import (
	"io"
	"strconv"
)

// Queue supplies a fixed sequence of canned input values.
type Queue struct {
	Values []string

	index int
}

var _ Input = (*Queue)(nil)

// QueueOf creates a Queue of integer values.
func QueueOf(values ...int) (queue *Queue) {
	queue = &Queue{}
	for _, value := range values {
		queue.Values = append(queue.Values, strconv.Itoa(value))
	}

	return
}

// Rewind restarts the queue from the first value.
func (qc *Queue) Rewind() {
	qc.index = 0
}

// Next returns the next value in the queue.
func (qc *Queue) Next() (value string, err error) {
	if qc.index >= len(qc.Values) {
		err = io.EOF
		return
	}

	value = qc.Values[qc.index]
	qc.index++

	return
}

// Remaining returns the count of unread values.
func (qc *Queue) Remaining() int {
	return len(qc.Values) - qc.index
}
