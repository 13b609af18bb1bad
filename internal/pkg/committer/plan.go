// Package committer collects Spanner mutations from repositories into a
// CommitPlan and applies them atomically. Repositories build mutations, they
// never apply them; the adapter that owns the unit of work applies the plan
// once, so a command's persistence is all-or-nothing.
package committer

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
)

// ErrVersionConflict is returned when an optimistic-lock check fails because
// the row version changed between load and commit.
var ErrVersionConflict = fmt.Errorf("optimistic lock conflict: concurrent modification detected")

// CommitPlan is a typed wrapper around Spanner mutations.
// It collects mutations from multiple sources and applies them atomically.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan.
// Nil mutations are silently ignored for convenience.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// Mutations returns all collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// IsEmpty returns true if the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (cp *CommitPlan) Count() int {
	return len(cp.mutations)
}

// Committer provides transaction execution for CommitPlans.
type Committer struct {
	client *spanner.Client
}

// NewCommitter creates a new Committer.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// Apply executes the CommitPlan atomically within a Spanner transaction.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	_, err := c.client.Apply(ctx, plan.Mutations())
	if err != nil {
		return fmt.Errorf("failed to apply commit plan: %w", err)
	}

	return nil
}

// ApplyWithVersionCheck executes the CommitPlan with optimistic locking: the
// row identified by table/key must still carry expectedVersion in
// versionColumn, otherwise ErrVersionConflict is returned and nothing is
// written.
func (c *Committer) ApplyWithVersionCheck(
	ctx context.Context,
	table string,
	key spanner.Key,
	versionColumn string,
	expectedVersion int64,
	plan *CommitPlan,
) error {
	if plan.IsEmpty() {
		return nil
	}

	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		row, err := txn.ReadRow(ctx, table, key, []string{versionColumn})
		if err != nil {
			return fmt.Errorf("failed to read %s version: %w", table, err)
		}

		var currentVersion int64
		if err := row.Column(0, &currentVersion); err != nil {
			return fmt.Errorf("failed to parse version: %w", err)
		}

		if currentVersion != expectedVersion {
			return ErrVersionConflict
		}

		return txn.BufferWrite(plan.Mutations())
	})
	if err != nil {
		return fmt.Errorf("failed to apply commit plan with version check: %w", err)
	}

	return nil
}
