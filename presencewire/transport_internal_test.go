package presencewire

// recordStates subscribes to all of the handle's lifecycle events and
// returns them through a buffered channel.
func recordStates(tr TransportHandle) chan TransportStateChange {
	states := make(chan TransportStateChange, 16)
	tr.OnAll(func(change TransportStateChange) {
		states <- change
	})
	return states
}
