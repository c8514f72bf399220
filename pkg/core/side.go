package core

import (
	"container/list"

	"github.com/google/btree"
	"github.com/nikolaydubina/fpdecimal"
)

// btreeDegree is the branching factor for the price-level trees.
const btreeDegree = 32

// orderQueue represents a price level: the FIFO queue of resting orders at
// one exact price on one side. A queue present in the book always holds at
// least one order.
type orderQueue struct {
	price    fpdecimal.Decimal
	priceStr string
	orders   *list.List
}

func newOrderQueue(price fpdecimal.Decimal) *orderQueue {
	return &orderQueue{
		price:    price,
		priceStr: price.String(),
		orders:   list.New(),
	}
}

// volume returns the total resting quantity at this level.
func (q *orderQueue) volume() int64 {
	var total int64
	for e := q.orders.Front(); e != nil; e = e.Next() {
		total += e.Value.(*Order).Remaining()
	}
	return total
}

// orderRef locates a resting order inside its side for O(log n) removal.
type orderRef struct {
	order *Order
	queue *orderQueue
	elem  *list.Element
}

// PriceLevel is an aggregated view of one price level, used for depth
// snapshots.
type PriceLevel struct {
	Price  fpdecimal.Decimal
	Volume int64
	Orders int
}

// bookSide holds one side of the book. Price levels are kept in a B-tree
// ordered best price first (descending for bids, ascending for asks), with
// secondary indexes by price and by order ID.
type bookSide struct {
	side    Side
	levels  *btree.BTreeG[*orderQueue]
	byPrice map[string]*orderQueue
	byOrder map[string]orderRef
}

func newBookSide(side Side) *bookSide {
	less := func(a, b *orderQueue) bool { return a.price.LessThan(b.price) }
	if side == Buy {
		less = func(a, b *orderQueue) bool { return a.price.GreaterThan(b.price) }
	}
	return &bookSide{
		side:    side,
		levels:  btree.NewG(btreeDegree, less),
		byPrice: make(map[string]*orderQueue),
		byOrder: make(map[string]orderRef),
	}
}

// append adds an order to the tail of the queue at its exact limit price,
// creating the price level if necessary.
func (s *bookSide) append(order *Order) {
	priceStr := order.Price().String()
	queue, ok := s.byPrice[priceStr]
	if !ok {
		queue = newOrderQueue(order.Price())
		s.byPrice[priceStr] = queue
		s.levels.ReplaceOrInsert(queue)
	}
	elem := queue.orders.PushBack(order)
	s.byOrder[order.ID()] = orderRef{order: order, queue: queue, elem: elem}
}

// best returns the queue at the best price on this side: highest bid or
// lowest ask.
func (s *bookSide) best() (*orderQueue, bool) {
	return s.levels.Min()
}

// unlink removes a resting order by ID and drops its price level if it
// became empty. Returns nil if the order is not resting on this side.
func (s *bookSide) unlink(orderID string) *Order {
	ref, ok := s.byOrder[orderID]
	if !ok {
		return nil
	}
	delete(s.byOrder, orderID)
	ref.queue.orders.Remove(ref.elem)
	if ref.queue.orders.Len() == 0 {
		s.levels.Delete(ref.queue)
		delete(s.byPrice, ref.queue.priceStr)
	}
	return ref.order
}

// bestPrice returns the extremal price on this side, if any.
func (s *bookSide) bestPrice() (fpdecimal.Decimal, bool) {
	queue, ok := s.levels.Min()
	if !ok {
		return fpdecimal.Zero, false
	}
	return queue.price, true
}

// orderCount returns the number of resting orders on this side.
func (s *bookSide) orderCount() int {
	return len(s.byOrder)
}

// depth returns up to n aggregated price levels, best first.
func (s *bookSide) depth(n int) []PriceLevel {
	if n <= 0 {
		return nil
	}
	levels := make([]PriceLevel, 0, n)
	s.levels.Ascend(func(queue *orderQueue) bool {
		if len(levels) >= n {
			return false
		}
		levels = append(levels, PriceLevel{
			Price:  queue.price,
			Volume: queue.volume(),
			Orders: queue.orders.Len(),
		})
		return true
	})
	return levels
}
