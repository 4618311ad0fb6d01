package websocket

// EventChatMessage is the only event the relay understands; anything else
// received on the socket is dropped.
const EventChatMessage = "chat message"

// Message is the wire envelope for the real-time channel. Data is relayed
// verbatim; no validation or size policy is applied to it.
type Message struct {
	Event string `json:"event"`
	Data  string `json:"data"`
}
