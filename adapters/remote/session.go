package remote

import (
	"context"
	"errors"
	"net/http"

	"github.com/growthlabpro/storefront/domain/checkout"
	"github.com/growthlabpro/storefront/domain/fault"
	"github.com/growthlabpro/storefront/ports"
)

// SessionPath is where the checkout session service listens on the site.
const SessionPath = "/.netlify/functions/create-checkout-session"

// SessionClient calls a checkout session service over HTTP.
type SessionClient struct {
	client *Client
	path   string
}

// NewSessionClient creates a session client. An empty path uses SessionPath.
func NewSessionClient(client *Client, path string) *SessionClient {
	if path == "" {
		path = SessionPath
	}
	return &SessionClient{client: client, path: path}
}

// CreateSession posts the request in the service's snake_case wire format.
// Any failure is an ExternalService fault carrying the service's message.
func (s *SessionClient) CreateSession(ctx context.Context, req checkout.Request) (checkout.Session, error) {
	var sess checkout.Session
	if err := s.client.Request(ctx, http.MethodPost, s.path, req, &sess); err != nil {
		var re *RemoteError
		if errors.As(err, &re) {
			return checkout.Session{}, fault.Wrap(fault.KindExternalService, re.Message, err)
		}
		return checkout.Session{}, fault.Wrap(fault.KindExternalService, err.Error(), err)
	}
	if sess.ID == "" {
		return checkout.Session{}, fault.New(fault.KindExternalService, "checkout session response has no sessionId")
	}
	return sess, nil
}

var _ ports.SessionCreator = (*SessionClient)(nil)
