package service

// Notifier fans out domain notifications to an out-of-process consumer.
// Delivery (email, push) happens outside this service.
type Notifier interface {
	Publish(routingKey string, payload any) error
}
