package pubsub

import (
	"context"
	"errors"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrClientClosed is returned when publishing to a closed local client.
var ErrClientClosed = errors.New("pubsub client closed")

// New connects to Google Cloud Pub/Sub for projectID.
func New(projectID string) PubSubClient {
	ctx := context.Background()
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	return &client{
		client: pubSubC,
	}
}

func (c *client) SendMessage(topic EventType, data any) error {
	ctx := context.Background()
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	message := &pubsub.Message{
		Data:       msgpackData,
		Attributes: map[string]string{"event_type": string(topic)},
	}
	result := c.client.Topic(string(topic)).Publish(ctx, message)
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topic)
		return err
	}
	log.Info("SendMessage", "serverID", serverID, "topic", topic)
	return nil
}

func (c *client) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func (c *client) Close() error {
	return c.client.Close()
}

func decode(data []byte, returnValue any) error {
	err := msgpack.Unmarshal(data, returnValue)
	if err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return err
	}
	return nil
}

// NewLocal returns a client that never leaves the process. Messages still go
// through msgpack so subscribers see exactly what a push subscription would.
func NewLocal() *LocalClient {
	return &LocalClient{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe registers h for every message published on topic.
func (c *LocalClient) Subscribe(topic EventType, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[topic] = append(c.handlers[topic], h)
}

// WithAsyncDelivery moves delivery onto a background worker so publishers do
// not wait for subscribers. Messages are delivered in publish order; buffer
// bounds how many can wait before SendMessage blocks. Close drains the queue.
func (c *LocalClient) WithAsyncDelivery(buffer int) *LocalClient {
	c.queue = make(chan localMessage, buffer)
	c.done = make(chan struct{})
	go c.run()
	return c
}

func (c *LocalClient) run() {
	defer close(c.done)
	for msg := range c.queue {
		_ = dispatch(msg)
	}
}

func (c *LocalClient) SendMessage(topic EventType, data any) error {
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}

	c.mu.RLock()
	handlers := c.handlers[topic]
	if len(handlers) == 0 {
		c.mu.RUnlock()
		log.Debug("No local subscribers for topic", "topic", topic)
		return nil
	}
	msg := localMessage{topic: topic, data: msgpackData, handlers: handlers}
	if c.queue == nil {
		c.mu.RUnlock()
		return dispatch(msg)
	}
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClientClosed
	}
	c.queue <- msg
	return nil
}

func dispatch(msg localMessage) error {
	var errs []error
	for _, h := range msg.handlers {
		if err := h(msg.data); err != nil {
			log.Error("Local subscriber failed", "error", err, "topic", msg.topic)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *LocalClient) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

// Close stops accepting messages and waits for queued ones to be delivered.
func (c *LocalClient) Close() error {
	c.mu.Lock()
	if c.queue != nil && !c.closed {
		c.closed = true
		close(c.queue)
	}
	c.mu.Unlock()
	if c.done != nil {
		<-c.done
	}
	return nil
}
