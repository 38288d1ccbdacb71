// Package messaging publishes domain events to a broker. NATS is the only
// transport; Noop stands in when messaging is disabled.
package messaging
