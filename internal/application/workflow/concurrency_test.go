package workflow_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
)

func TestConfirmSalesOrder_ConcurrentNumbersAreUnique(t *testing.T) {
	f := newFixture(t)
	const n = 50
	const product = "prod-conc"
	f.stockUp(t, product, "50", "2")

	orders := make([]*entity.SalesOrder, n)
	for i := range orders {
		orders[i] = f.salesOrder(t, product, "1", "10", "0")
	}

	var wg sync.WaitGroup
	numbers := make([]string, n)
	errs := make([]error, n)
	for i, so := range orders {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			res, err := f.engine.ConfirmSalesOrder(context.Background(), id, testUser)
			errs[i] = err
			if err == nil {
				numbers[i] = res.Order.Number
			}
		}(i, so.ID)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := range orders {
		require.NoError(t, errs[i])
		assert.False(t, seen[numbers[i]], "número repetido %s", numbers[i])
		seen[numbers[i]] = true
	}
	assert.Len(t, seen, n)

	lvl := f.level(t, product)
	assert.True(t, lvl.QuantityReserved.Equal(d("50")))
	assert.True(t, lvl.QuantityAvailable.IsZero())
	f.assertInvariants(t, product)
}

func TestConfirmSalesOrder_ConcurrentReservationsNeverOversell(t *testing.T) {
	f := newFixture(t)
	const product = "prod-escaso"
	f.stockUp(t, product, "5", "2")

	const n = 12
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		so := f.salesOrder(t, product, "1", "10", "0")
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.engine.ConfirmSalesOrder(context.Background(), id, testUser)
			results <- err
		}(so.ID)
	}
	wg.Wait()
	close(results)

	ok, short := 0, 0
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		short++
	}
	assert.Equal(t, 5, ok)
	assert.Equal(t, n-5, short)
	assert.True(t, f.level(t, product).QuantityAvailable.IsZero())
	f.assertInvariants(t, product)
}
