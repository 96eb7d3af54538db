package notifier

// Noop stands in when no broker is configured, e.g. local development.
type Noop struct{}

func (Noop) Publish(string, any) error {
	return nil
}
