package eligibility

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/models"
	"github.com/BruksfildServices01/barber-slots/internal/validators"
)

type ClientLookup interface {
	// GetClient returns nil, nil for unknown ids.
	GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error)
}

// Checker admits registered clients that exist and have verified their
// email, and guests whose contact details are well formed. With checkMX set,
// guest email domains must also resolve.
type Checker struct {
	clients       ClientLookup
	checkMX       bool
	domainResolve func(ctx context.Context, email string) bool
}

func NewChecker(clients ClientLookup, checkMX bool) *Checker {
	return &Checker{
		clients:       clients,
		checkMX:       checkMX,
		domainResolve: validators.NewMailDomains(net.DefaultResolver, 3*time.Second).Accepts,
	}
}

func (c *Checker) IsEligible(ctx context.Context, r domain.Requester) (bool, error) {
	switch req := r.(type) {
	case domain.RegisteredClient:
		client, err := c.clients.GetClient(ctx, req.ID)
		if err != nil {
			return false, fmt.Errorf("lookup client %s: %w", req.ID, err)
		}
		return client != nil && client.EmailVerifiedAt != nil, nil

	case domain.GuestDetails:
		if req.Validate() != nil {
			return false, nil
		}
		if c.checkMX && !c.domainResolve(ctx, req.Email) {
			return false, nil
		}
		return true, nil
	}

	return false, nil
}

var _ domain.Eligibility = (*Checker)(nil)
