package presencewire

// LibraryVersion is reported to the remote agent on dial.
const LibraryVersion = "0.1.0"

const agentHeader = "Presencewire-Agent"

func agentIdentifier() string {
	ident := "presencewire-go/" + LibraryVersion
	if osID := goOSIdentifier(); osID != "" {
		ident += " " + osID
	}
	return ident
}
