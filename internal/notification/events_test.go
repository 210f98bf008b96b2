package notification_test

import (
	"context"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/osmech/workshop-management/internal/events"
	"github.com/osmech/workshop-management/internal/notification"
)

type delivery struct {
	recipient notification.Recipient
	typ       notification.Type
	title     string
	message   string
	category  notification.Category
	relatedID *string
}

type mockNotifier struct {
	deliveries []delivery
}

func (m *mockNotifier) Notify(recipient notification.Recipient, typ notification.Type, priority notification.Priority, title, message string, category notification.Category, relatedID *string) error {
	m.deliveries = append(m.deliveries, delivery{
		recipient: recipient,
		typ:       typ,
		title:     title,
		message:   message,
		category:  category,
		relatedID: relatedID,
	})
	return nil
}

var _ = Describe("Order event handlers", func() {
	var (
		bus      *events.EventBus
		notifier *mockNotifier
		ctx      context.Context
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(logger)
		notifier = &mockNotifier{}
		notification.RegisterEventHandlers(bus, notifier)
		ctx = context.Background()
	})

	It("should broadcast when an order is created", func() {
		event := events.NewOrderCreatedEvent(1, "OS-1001", "Maria Souza", "ABC-1234")
		Expect(bus.PublishSync(ctx, event)).To(Succeed())

		Expect(notifier.deliveries).To(HaveLen(1))
		d := notifier.deliveries[0]
		Expect(d.recipient.IsBroadcast()).To(BeTrue())
		Expect(d.typ).To(Equal(notification.TypeInfo))
		Expect(d.title).To(Equal("Nova OS OS-1001"))
		Expect(d.message).To(ContainSubstring("Maria Souza"))
		Expect(d.message).To(ContainSubstring("ABC-1234"))
		Expect(d.category).To(Equal(notification.CategoryOrder))
		Expect(d.relatedID).ToNot(BeNil())
		Expect(*d.relatedID).To(Equal("OS-1001"))
	})

	It("should broadcast when an order is removed", func() {
		event := events.NewOrderDeletedEvent(1, "OS-1001", "Maria Souza")
		Expect(bus.PublishSync(ctx, event)).To(Succeed())

		Expect(notifier.deliveries).To(HaveLen(1))
		d := notifier.deliveries[0]
		Expect(d.recipient.IsBroadcast()).To(BeTrue())
		Expect(d.typ).To(Equal(notification.TypeWarning))
		Expect(d.title).To(Equal("OS OS-1001 removida"))
		Expect(d.message).To(Equal("OS OS-1001 de Maria Souza foi removida"))
	})

	It("should broadcast when an order changes status", func() {
		event := events.NewOrderStatusChangedEvent(1, "OS-1001", "Pendente", "Em Execução")
		Expect(bus.PublishSync(ctx, event)).To(Succeed())

		Expect(notifier.deliveries).To(HaveLen(1))
		d := notifier.deliveries[0]
		Expect(d.title).To(Equal("OS OS-1001 atualizada"))
		Expect(d.message).To(Equal("Status alterado de Pendente para Em Execução"))
	})
})
