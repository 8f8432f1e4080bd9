// Package wsutil holds small helpers shared by the websocket transport.
package wsutil

import "log"

// SafeSend writes data to a client's outbound channel without panicking if
// the channel has since been closed (the client disconnected concurrently)
// and without blocking if the channel's buffer is full (the message is
// dropped rather than allowed to stall the caller; the client stays
// connected).
func SafeSend(ch chan []byte, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[wsutil] SafeSend recovered from panic: %v", r)
		}
	}()
	select {
	case ch <- data:
	default:
	}
}
