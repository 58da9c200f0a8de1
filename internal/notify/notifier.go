package notify

import "ppewatch-backend/internal/bus"

// BusNotifier publishes human notifications on a fixed distribution
// subject; downstream gateways (mail, push) fan out from there.
type BusNotifier struct {
	Publisher *bus.Publisher
	Subject   string
}

func (n *BusNotifier) Send(msg bus.Notification) error {
	return n.Publisher.Publish(n.Subject, msg)
}
