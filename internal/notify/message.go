package notify

import (
	"context"
	"time"
)

// Channel is the delivery medium for a notification.
type Channel string

const (
	ChannelEmail  Channel = "email"
	ChannelSMS    Channel = "sms"
	ChannelPush   Channel = "push"
	ChannelSystem Channel = "system"
)

// Message is one outbound notification.
type Message struct {
	ID        string
	Recipient string
	Subject   string
	Body      string
	Channel   Channel
	CreatedAt time.Time
	Metadata  map[string]string
}

// Sender delivers a message over some transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a plain function to the Sender interface.
type SenderFunc func(ctx context.Context, msg Message) error

func (f SenderFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}
