package presencewire

// Activity is the presence status record being relayed. All fields are
// optional; the library forwards whatever is given without interpreting
// or validating the contents.
type Activity struct {
	Details        string `json:"details,omitempty" msgpack:"details,omitempty"`
	State          string `json:"state,omitempty" msgpack:"state,omitempty"`
	LargeImageKey  string `json:"largeImageKey,omitempty" msgpack:"largeImageKey,omitempty"`
	StartTimestamp int64  `json:"startTimestamp,omitempty" msgpack:"startTimestamp,omitempty"`
}
