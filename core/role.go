package core

import "context"

const (
	// PropertyOwner property key of the owner singleton
	PropertyOwner = "role_owner"
	// PropertyOracle property key of the oracle singleton
	PropertyOracle = "role_oracle"
)

// IRoleService owner/oracle access controller
//
// Both roles are mutable singletons. A transfer takes effect atomically and
// exclusively: the previous holder loses the role in the same operation the
// new holder gains it.
type IRoleService interface {
	Owner(ctx context.Context) (string, error)
	Oracle(ctx context.Context) (string, error)
	TransferOwner(ctx context.Context, caller, newOwner string) error
	TransferOracle(ctx context.Context, caller, newOracle string) error
}
