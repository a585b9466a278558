package chat

// Inbound is a chat frame as received from a client. The username field is
// accepted for wire compatibility but ignored: the relay stamps the sender
// from the session bound at connection time.
type Inbound struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Message is the frame broadcast to every open connection.
type Message struct {
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"` // server-local HH:MM
}
