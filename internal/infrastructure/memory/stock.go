package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/erp-workflow-api/internal/domain"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

var (
	_ repository.StockLevelRepository    = (*stockRepo)(nil)
	_ repository.ReservationRepository   = (*reservationRepo)(nil)
	_ repository.StockMovementRepository = (*movementRepo)(nil)
)

type stockRepo struct{ s *Store }

func (r *stockRepo) GetOrCreateForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockLevel, error) {
	if cur, ok := r.s.data.stock[key]; ok {
		c := *cur
		return &c, nil
	}
	level := entity.NewStockLevel(key, time.Now().UTC())
	stored := *level
	r.s.data.stock[key] = &stored
	return level, nil
}

func (r *stockRepo) Get(ctx context.Context, key entity.StockKey) (*entity.StockLevel, error) {
	cur, ok := r.s.data.stock[key]
	if !ok {
		return nil, nil
	}
	c := *cur
	return &c, nil
}

func (r *stockRepo) ApplyDelta(ctx context.Context, key entity.StockKey, delta entity.StockDelta) (*entity.StockLevel, error) {
	cur, ok := r.s.data.stock[key]
	if !ok {
		return nil, fmt.Errorf("%w: stock %s/%s", domain.ErrNotFound, key.ProductID, key.WarehouseID)
	}
	next := *cur
	next.Apply(delta, time.Now().UTC())
	r.s.data.stock[key] = &next
	out := next
	return &out, nil
}

type reservationRepo struct{ s *Store }

func (r *reservationRepo) Create(ctx context.Context, res *entity.StockReservation) error {
	if _, ok := r.s.data.reservations[res.ID]; ok {
		return fmt.Errorf("%w: reserva %s", domain.ErrDuplicate, res.ID)
	}
	r.s.data.reservationSeq++
	res.Seq = r.s.data.reservationSeq
	c := *res
	r.s.data.reservations[res.ID] = &c
	return nil
}

func (r *reservationRepo) Update(ctx context.Context, res *entity.StockReservation) error {
	if _, ok := r.s.data.reservations[res.ID]; !ok {
		return fmt.Errorf("%w: reserva %s", domain.ErrNotFound, res.ID)
	}
	c := *res
	r.s.data.reservations[res.ID] = &c
	return nil
}

func (r *reservationRepo) ListActiveByLineForUpdate(ctx context.Context, salesOrderID, orderLineID string) ([]*entity.StockReservation, error) {
	return r.filter(func(res *entity.StockReservation) bool {
		return res.Status == entity.ReservationActive && res.SalesOrderID == salesOrderID && res.OrderLineID == orderLineID
	}), nil
}

func (r *reservationRepo) ListByOrder(ctx context.Context, salesOrderID string) ([]*entity.StockReservation, error) {
	return r.filter(func(res *entity.StockReservation) bool {
		return res.SalesOrderID == salesOrderID
	}), nil
}

func (r *reservationRepo) ListActiveByStock(ctx context.Context, key entity.StockKey) ([]*entity.StockReservation, error) {
	return r.filter(func(res *entity.StockReservation) bool {
		return res.Status == entity.ReservationActive && res.CompanyID == key.CompanyID &&
			res.ProductID == key.ProductID && res.WarehouseID == key.WarehouseID
	}), nil
}

// filter copias ordenadas por Seq.
func (r *reservationRepo) filter(keep func(*entity.StockReservation) bool) []*entity.StockReservation {
	var out []*entity.StockReservation
	for _, res := range r.s.data.reservations {
		if keep(res) {
			c := *res
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	c := *m
	r.s.data.movements = append(r.s.data.movements, &c)
	return nil
}

func (r *movementRepo) ListByStock(ctx context.Context, key entity.StockKey) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.data.movements {
		if m.CompanyID == key.CompanyID && m.ProductID == key.ProductID && m.WarehouseID == key.WarehouseID {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}
