package pubsub

// PubSubClient publishes domain events and decodes them on the receiving side.
type PubSubClient interface {
	SendMessage(topic EventType, data any) error
	ProcessMessage(data []byte, returnValue any) error
	Close() error
}
