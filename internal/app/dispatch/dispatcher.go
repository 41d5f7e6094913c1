package dispatch

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ordersys/tableside/internal/adapter/logger"
	"github.com/ordersys/tableside/internal/interfaces"
)

// Dispatcher is the single background consumer of the queue. Each iteration
// peeks the head, checks printer availability, attempts the print and only
// then removes the order. Failures leave the head in place and back off;
// retries are unbounded because a lost order is worse than a delayed one.
//
// Exactly one Dispatcher must run per queue. A second instance would break
// the at-most-one-active-print-attempt guarantee.
//
// There is no per-attempt timeout at this level: a print that hangs inside
// an endpoint blocks the whole queue. The network endpoint carries its own
// I/O deadlines to keep that window bounded.
type Dispatcher struct {
	queue     *Queue
	router    *Router
	publisher interfaces.MessagePublisher // may be nil
	logger    logger.Logger

	retryInitial time.Duration
	retryMax     time.Duration
}

func NewDispatcher(queue *Queue, router *Router, publisher interfaces.MessagePublisher, lg logger.Logger, retryInitial, retryMax time.Duration) *Dispatcher {
	if retryInitial <= 0 {
		retryInitial = 500 * time.Millisecond
	}
	if retryMax < retryInitial {
		retryMax = retryInitial
	}
	return &Dispatcher{
		queue:        queue,
		router:       router,
		publisher:    publisher,
		logger:       lg,
		retryInitial: retryInitial,
		retryMax:     retryMax,
	}
}

// Run drives the dispatch loop until the context is cancelled. It returns
// the context error; it has no other terminal state.
func (d *Dispatcher) Run(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = d.retryInitial
	bo.MaxInterval = d.retryMax
	bo.MaxElapsedTime = 0 // retry forever
	bo.Reset()

	for {
		// Idle: block until there is work, without spinning.
		if err := d.queue.WaitNonEmpty(ctx); err != nil {
			return err
		}

		order, ok := d.queue.PeekHead()
		if !ok {
			// An out-of-band removal emptied the queue between the wakeup
			// and the peek.
			continue
		}

		// Checking: hold off while any printer is offline.
		if !d.router.AllAvailable() {
			wait := bo.NextBackOff()
			d.logger.Debug("printers_unavailable", "Printers not available, holding queue", "", map[string]interface{}{
				"retry_in_ms": wait.Milliseconds(),
				"queue_depth": d.queue.Depth(),
			})
			if err := sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}

		// Printing.
		if !d.router.Dispatch(ctx, order) {
			wait := bo.NextBackOff()
			d.logger.Info("print_retry_scheduled", "Order print failed, will retry", "", map[string]interface{}{
				"timestamp":    order.Timestamp,
				"table_number": order.TableNumber,
				"retry_in_ms":  wait.Milliseconds(),
			})
			if err := sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}

		// Settled: removal happens only after the confirmed print. The
		// timestamp check refuses to remove anything if an operator took
		// this exact order out mid-print; the next head stays queued.
		if !d.queue.RemoveHead(order.Timestamp) {
			d.logger.Debug("order_already_removed", "Order removed out of band during print", "", map[string]interface{}{
				"timestamp": order.Timestamp,
			})
			bo.Reset()
			continue
		}
		bo.Reset()

		d.logger.Info("order_printed", "Order dispatched to printers", "", map[string]interface{}{
			"order_id":     order.ID,
			"timestamp":    order.Timestamp,
			"table_number": order.TableNumber,
			"queue_depth":  d.queue.Depth(),
		})

		if d.publisher != nil {
			event := interfaces.OrderEvent{
				Event:       interfaces.EventOrderPrinted,
				OrderID:     order.ID,
				Timestamp:   order.Timestamp,
				TableNumber: order.TableNumber,
				Items:       order.Items,
				TotalPrice:  order.TotalPrice,
				OccurredAt:  time.Now(),
			}
			if err := d.publisher.PublishOrderEvent(ctx, event); err != nil {
				d.logger.Error("publish_failed", "Failed to publish order_printed event", "", map[string]interface{}{
					"timestamp": order.Timestamp,
				}, err)
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
