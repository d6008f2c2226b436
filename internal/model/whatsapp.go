package model

// Meta Cloud API webhook payload. Only the fields the bot reads are mapped;
// status/delivery receipt payloads simply decode to an empty message list.

type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Value WebhookValue `json:"value"`
}

type WebhookValue struct {
	Messages []InboundMessage `json:"messages"`
}

// InboundMessage is one user message delivered by the webhook
type InboundMessage struct {
	ID   string       `json:"id"`   // wamid, used for deduplication
	From string       `json:"from"` // sender phone number
	Type string       `json:"type"` // "text", "image", ...
	Text *MessageText `json:"text,omitempty"`
}

type MessageText struct {
	Body string `json:"body"`
}

// QueuedMessage is the envelope published to the in-process queue between
// the webhook ack and the consumer
type QueuedMessage struct {
	ID   string `json:"id"`
	From string `json:"from"`
	Text string `json:"text"`
}
