package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"riepilogo/internal/amqp"
	"riepilogo/internal/core"
	"riepilogo/internal/log"
	"riepilogo/internal/ports"
)

// EventPublisher announces expense changes. *amqp.Client implements it.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, ev amqp.ExpenseEvent) error
}

// ExpenseService orchestrates expense writes across storage and messaging.
// Events are best effort: a failed publish is logged and the write stands.
type ExpenseService struct {
	store     ports.Store
	publisher EventPublisher
	logger    *log.Logger
}

// NewExpenseService wires the service. publisher may be nil to disable
// events; pass an untyped nil, not a nil *amqp.Client.
func NewExpenseService(store ports.Store, publisher EventPublisher, logger *log.Logger) *ExpenseService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ExpenseService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentExpense),
	}
}

// ExpenseList is a filtered listing and the sum of its amounts.
type ExpenseList struct {
	Items []core.Expense
	Total core.Money
}

// CreateExpense saves an expense and publishes a created event.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	saved, err := s.store.Create(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense created",
		log.NewFields().WithExpense(saved.ID, saved.Title, saved.Category, saved.Amount.Cents).WithOperation(log.OpCreate).ToSlice()...)
	s.publish(ctx, amqp.NewExpenseEvent(amqp.EventCreated, saved))
	return saved, nil
}

// UpdateExpense overwrites an expense. When the date moves to another month,
// both months are announced.
func (s *ExpenseService) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	old, err := s.store.Get(ctx, e.ID)
	if err != nil {
		return core.Expense{}, err
	}
	saved, err := s.store.Update(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense updated",
		log.NewFields().WithExpense(saved.ID, saved.Title, saved.Category, saved.Amount.Cents).WithOperation(log.OpUpdate).ToSlice()...)
	s.publish(ctx, amqp.NewExpenseEvent(amqp.EventUpdated, saved))
	if !old.Date.In(saved.Date.Year(), saved.Date.Month()) {
		s.publish(ctx, amqp.NewExpenseEvent(amqp.EventUpdated, old))
	}
	return saved, nil
}

// DeleteExpense removes an expense and publishes a deleted event for its
// month.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	old, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense deleted", log.FieldExpenseID, id, log.FieldOperation, log.OpDelete)
	s.publish(ctx, amqp.NewExpenseEvent(amqp.EventDeleted, old))
	return nil
}

func (s *ExpenseService) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	return s.store.Get(ctx, id)
}

// SearchExpenses lists the expenses matching f with their total.
func (s *ExpenseService) SearchExpenses(ctx context.Context, f core.Filter) (ExpenseList, error) {
	if f.Month != 0 {
		if err := core.ValidateMonth(f.Month); err != nil {
			return ExpenseList{}, err
		}
	}
	items, err := s.store.SearchExpenses(ctx, f)
	if err != nil {
		return ExpenseList{}, fmt.Errorf("search expenses: %w", err)
	}
	list := ExpenseList{Items: items}
	for _, e := range items {
		list.Total = list.Total.Add(e.Amount)
	}
	return list, nil
}

func (s *ExpenseService) publish(ctx context.Context, ev amqp.ExpenseEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, ev); err != nil {
		s.logger.LogError(ctx, "Failed to publish expense event", err, log.OpPublish,
			log.FieldEventType, ev.Type, log.FieldExpenseID, ev.ID)
	}
}

// Close closes both storage and the publisher when it holds a connection.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %w", errors.Join(errs...))
	}
	return nil
}
