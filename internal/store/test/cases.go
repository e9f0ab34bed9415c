package test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rubixchain/rubix-dapp/internal/store"
	"github.com/rubixchain/rubix-dapp/pkg/operation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// step is a single store call and its expected outcome.
type step struct {
	op      string
	id      string
	status  operation.Status
	created bool
	found   bool
}

type testCase struct {
	name  string
	steps []step
}

func (c *testCase) Run(t *testing.T, s store.Store) {
	t.Run(c.name, func(t *testing.T) {
		ctx := context.Background()

		for i, step := range c.steps {
			switch step.op {
			case "create":
				created, err := s.Create(ctx, step.id, step.status)
				require.Nil(t, err, "step %d", i)
				assert.Equal(t, step.created, created, "step %d", i)
			case "update":
				require.Nil(t, s.Update(ctx, step.id, step.status), "step %d", i)
			case "get":
				status, found, err := s.Get(ctx, step.id)
				require.Nil(t, err, "step %d", i)
				assert.Equal(t, step.found, found, "step %d", i)
				assert.Equal(t, step.status, status, "step %d", i)
			default:
				panic(fmt.Sprintf("unknown op %s", step.op))
			}
		}
	})
}

var TestCases = []*testCase{
	{
		name: "GetUnknownIsPending",
		steps: []step{
			{op: "get", id: "nft-abc-mint", status: operation.Pending, found: false},
		},
	},
	{
		name: "CreateThenGet",
		steps: []step{
			{op: "create", id: "nft-abc-mint", status: operation.Pending, created: true},
			{op: "get", id: "nft-abc-mint", status: operation.Pending, found: true},
		},
	},
	{
		name: "CreateIsIdempotent",
		steps: []step{
			{op: "create", id: "nft-abc-mint", status: operation.Pending, created: true},
			{op: "update", id: "nft-abc-mint", status: operation.Success},
			{op: "create", id: "nft-abc-mint", status: operation.Pending, created: false},
			{op: "get", id: "nft-abc-mint", status: operation.Success, found: true},
		},
	},
	{
		name: "UpdateTransitions",
		steps: []step{
			{op: "create", id: "ft-abc-transfer", status: operation.Pending, created: true},
			{op: "update", id: "ft-abc-transfer", status: operation.Failed},
			{op: "get", id: "ft-abc-transfer", status: operation.Failed, found: true},
			{op: "update", id: "ft-abc-transfer", status: operation.Success},
			{op: "get", id: "ft-abc-transfer", status: operation.Success, found: true},
		},
	},
	{
		name: "UpdateInsertsMissing",
		steps: []step{
			{op: "update", id: "abc-mint", status: operation.Success},
			{op: "get", id: "abc-mint", status: operation.Success, found: true},
		},
	},
	{
		name: "KeysAreIndependent",
		steps: []step{
			{op: "create", id: "nft-abc-mint", status: operation.Pending, created: true},
			{op: "create", id: "nft-abc-transfer", status: operation.Pending, created: true},
			{op: "create", id: "ft-abc-mint", status: operation.Pending, created: true},
			{op: "update", id: "nft-abc-transfer", status: operation.Failed},
			{op: "get", id: "nft-abc-mint", status: operation.Pending, found: true},
			{op: "get", id: "nft-abc-transfer", status: operation.Failed, found: true},
			{op: "get", id: "ft-abc-mint", status: operation.Pending, found: true},
		},
	},
}

// RunConcurrentCreate checks that exactly one of many concurrent creates
// for the same id wins.
func RunConcurrentCreate(t *testing.T, s store.Store) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			created, err := s.Create(context.Background(), "nft-race-mint", operation.Pending)
			assert.Nil(t, err)
			if created {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, wins)
}
