package broker

import "errors"

var (
	// ErrNotConnected is returned when publishing while the broker link is down.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrConnectionFailed is returned when the initial connection attempt fails.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrPublishFailed is returned when a publish is rejected or times out.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrQueueFull is returned when messages arrive faster than the broker
	// acknowledges them.
	ErrQueueFull = errors.New("mqtt: publish queue full")
)
