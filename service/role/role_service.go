package role

import (
	"context"

	"coursemarket/core"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
)

type roleService struct {
	db       *db.DB
	property property.Store
	events   core.IEventStore
	genesis  core.Genesis
}

// New new role service
//
// Owner and oracle live in the property store and are seeded from the
// genesis config the first time they are read.
func New(db *db.DB, propertyStore property.Store, events core.IEventStore, genesis core.Genesis) core.IRoleService {
	return &roleService{
		db:       db,
		property: propertyStore,
		events:   events,
		genesis:  genesis,
	}
}

func (s *roleService) Owner(ctx context.Context) (string, error) {
	return s.holder(ctx, core.PropertyOwner, s.genesis.Owner)
}

func (s *roleService) Oracle(ctx context.Context) (string, error) {
	return s.holder(ctx, core.PropertyOracle, s.genesis.Oracle)
}

func (s *roleService) TransferOwner(ctx context.Context, caller, newOwner string) error {
	return s.transfer(ctx, caller, core.PropertyOwner, newOwner, core.ActionTypeOwnerChanged)
}

func (s *roleService) TransferOracle(ctx context.Context, caller, newOracle string) error {
	return s.transfer(ctx, caller, core.PropertyOracle, newOracle, core.ActionTypeOracleChanged)
}

func (s *roleService) holder(ctx context.Context, key, genesis string) (string, error) {
	v, err := s.property.Get(ctx, key)
	if err != nil {
		return "", err
	}

	if holder := v.String(); holder != "" {
		return holder, nil
	}

	if err := s.property.Save(ctx, key, genesis); err != nil {
		return "", err
	}

	return genesis, nil
}

func (s *roleService) transfer(ctx context.Context, caller, key, target string, action core.ActionType) error {
	log := logger.FromContext(ctx).WithField("service", "role")

	owner, err := s.Owner(ctx)
	if err != nil {
		return err
	}

	if caller != owner {
		return core.ErrUnauthorized
	}

	if target == "" {
		return core.ErrInvalidRoleTarget
	}

	old, err := s.holder(ctx, key, "")
	if err != nil {
		return err
	}

	// the property write swaps the holder in one step; the previous holder
	// loses the role exactly when the new one gains it
	if err := s.property.Save(ctx, key, target); err != nil {
		log.WithError(err).Errorln("property.Save", key)
		return err
	}

	extra := core.NewEventExtra()
	extra.Put("old", old)
	extra.Put("new", target)

	event := &core.Event{
		Action: action,
		UserID: target,
		Extra:  extra.Format(),
	}
	// the swap above is already committed; the trail entry is best effort
	// and must not turn a completed transfer into an error
	if err := s.events.Create(ctx, s.db, event); err != nil {
		log.WithError(err).Errorln("events.Create")
	}

	return nil
}
