package services

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	apperrors "task-market.com/task-market/internal/errors"
	model "task-market.com/task-market/internal/models"
)

type ProfileLookup interface {
	FindByID(ctx context.Context, id string) (*model.Profile, error)
}

// IdentityResolver is the one place profile ids become account ids.
type IdentityResolver struct {
	profiles    ProfileLookup
	group       singleflight.Group
	concurrency int
}

type Resolution struct {
	ProfileID string
	AccountID string
	Err       error
}

func NewIdentityResolver(profiles ProfileLookup, concurrency int) *IdentityResolver {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &IdentityResolver{
		profiles:    profiles,
		concurrency: concurrency,
	}
}

// Resolve returns the account linked to profileID. Every failure matches
// errors.ErrIdentityResolution.
func (r *IdentityResolver) Resolve(ctx context.Context, profileID string) (string, error) {
	v, err, _ := r.group.Do(profileID, func() (interface{}, error) {
		p, err := r.profiles.FindByID(ctx, profileID)
		if err != nil {
			return "", apperrors.IdentityResolutionError(profileID, err)
		}
		if p.AccountID == nil || *p.AccountID == "" {
			return "", apperrors.IdentityResolutionError(profileID, nil)
		}
		return *p.AccountID, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// ResolveMany resolves every profile concurrently, at most concurrency at a
// time. A failed lookup is reported in its Resolution and never stops the
// others. Results keep the input order.
func (r *IdentityResolver) ResolveMany(ctx context.Context, profileIDs []string) []Resolution {
	out := make([]Resolution, len(profileIDs))

	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for i, id := range profileIDs {
		g.Go(func() error {
			accountID, err := r.Resolve(ctx, id)
			out[i] = Resolution{ProfileID: id, AccountID: accountID, Err: err}
			if err != nil {
				log.Printf("identity: %v", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return out
}
