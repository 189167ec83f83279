package goStudio

import (
	"io"

	"github.com/MrEthical07/goStudio/internal/events"
	"github.com/MrEthical07/goStudio/internal/flows"
	"github.com/MrEthical07/goStudio/internal/transport"
	"github.com/MrEthical07/goStudio/router"
	"github.com/MrEthical07/goStudio/session"
)

// User is the logged-in identity.
type User = session.User

// View is a read-only projection of the session state.
type View = session.View

// Credentials is the login request.
type Credentials = flows.Credentials

// RegisterRequest is the registration request.
type RegisterRequest = flows.RegisterRequest

// AuthResponse is the server's reply to login and register.
type AuthResponse = flows.AuthResponse

// AuthorizerPolicy controls 401 handling of one API client.
type AuthorizerPolicy = transport.Policy

// Route describes one navigable location.
type Route = router.Route

// Decision is the outcome of guarding a navigation.
type Decision = router.Decision

// Location is where the default navigator stands.
type Location = router.Location

// Event is one session lifecycle occurrence.
type Event = events.Event

// EventType names a lifecycle event.
type EventType = events.Type

// EventSink receives events asynchronously through the dispatcher.
type EventSink = events.Sink

// NoOpSink discards events.
type NoOpSink = events.NoOpSink

// ChannelSink forwards events to a channel.
type ChannelSink = events.ChannelSink

// JSONWriterSink writes one JSON document per event.
type JSONWriterSink = events.JSONWriterSink

// Lifecycle event types.
const (
	EventLoginSuccess    = events.TypeLoginSuccess
	EventLoginFailure    = events.TypeLoginFailure
	EventRegisterSuccess = events.TypeRegisterSuccess
	EventRegisterFailure = events.TypeRegisterFailure
	EventLogout          = events.TypeLogout
	EventUnauthorized    = events.TypeUnauthorized
	EventSessionRestored = events.TypeSessionRestored
	EventGuardRedirect   = events.TypeGuardRedirect
)

// NewChannelSink returns a sink buffering up to buffer events.
func NewChannelSink(buffer int) *ChannelSink {
	return events.NewChannelSink(buffer)
}

// NewJSONWriterSink returns a sink writing JSON lines to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return events.NewJSONWriterSink(w)
}
