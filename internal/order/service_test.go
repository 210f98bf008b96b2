package order_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/osmech/workshop-management/internal/audit"
	"github.com/osmech/workshop-management/internal/auth"
	"github.com/osmech/workshop-management/internal/events"
	"github.com/osmech/workshop-management/internal/order"
)

func TestOrder(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Order Module Suite")
}

type mockOrderRepository struct {
	orders      map[int64]*order.ServiceOrder
	items       map[int64][]*order.ServiceItem
	nextID      int64
	nextNumber  int64
	createError error
	paidRevenue float64
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{
		orders:     make(map[int64]*order.ServiceOrder),
		items:      make(map[int64][]*order.ServiceItem),
		nextID:     1,
		nextNumber: 1000,
	}
}

func (m *mockOrderRepository) Create(o *order.ServiceOrder) error {
	if m.createError != nil {
		return m.createError
	}
	m.nextNumber++
	o.ID = m.nextID
	m.nextID++
	o.OrderNumber = fmt.Sprintf("OS-%d", m.nextNumber)
	m.orders[o.ID] = o
	return nil
}

func (m *mockOrderRepository) GetByID(id int64) (*order.ServiceOrder, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return o, nil
}

func (m *mockOrderRepository) List(filters order.ListFilters) ([]*order.ServiceOrder, error) {
	var out []*order.ServiceOrder
	for _, o := range m.orders {
		if filters.Status != "" && o.Status != filters.Status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (m *mockOrderRepository) Update(o *order.ServiceOrder) error {
	m.orders[o.ID] = o
	return nil
}

func (m *mockOrderRepository) Delete(o *order.ServiceOrder) error {
	delete(m.orders, o.ID)
	delete(m.items, o.ID)
	return nil
}

func (m *mockOrderRepository) AddItem(item *order.ServiceItem, o *order.ServiceOrder) error {
	item.ID = int64(len(m.items[o.ID]) + 1)
	m.items[o.ID] = append(m.items[o.ID], item)
	m.orders[o.ID] = o
	return nil
}

func (m *mockOrderRepository) ItemsForOrder(orderID int64) ([]*order.ServiceItem, error) {
	return m.items[orderID], nil
}

func (m *mockOrderRepository) Count() (int64, error) {
	return int64(len(m.orders)), nil
}

func (m *mockOrderRepository) CountByStatus(status order.OSStatus) (int64, error) {
	var count int64
	for _, o := range m.orders {
		if o.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *mockOrderRepository) SumTotalCostByStatus(status order.OSStatus) (float64, error) {
	return m.paidRevenue, nil
}

type mockMechanicResolver struct {
	mechanics map[int64]*auth.User
}

func (m *mockMechanicResolver) GetByID(userID int64) (*auth.User, error) {
	u, ok := m.mechanics[userID]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

type mockRecorder struct {
	entries []*audit.Log
}

func (m *mockRecorder) Record(entry *audit.Log) error {
	m.entries = append(m.entries, entry)
	return nil
}

// eventCollector gathers published events behind a mutex because the bus
// dispatches on goroutines.
type eventCollector struct {
	mu     sync.Mutex
	events []events.Event
}

func (c *eventCollector) handle(ctx context.Context, e events.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

func (c *eventCollector) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.events))
	for i, e := range c.events {
		out[i] = e.EventType()
	}
	return out
}

var _ = Describe("OrderService", func() {
	var (
		service   *order.Service
		repo      *mockOrderRepository
		recorder  *mockRecorder
		collector *eventCollector
		actor     *auth.User
		ctx       context.Context
	)

	validCreate := order.CreateOrderDTO{
		CustomerName: "Maria Souza",
		Phone:        "(11) 98888-7777",
		VehicleModel: "Fiat Uno",
		Plate:        "abc-1234",
		Complaint:    "Barulho no motor",
	}

	BeforeEach(func() {
		repo = newMockOrderRepository()
		recorder = &mockRecorder{}
		collector = &eventCollector{}
		ctx = context.Background()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus := events.NewEventBus(logger)
		bus.Subscribe(events.EventTypeOrderCreated, collector.handle)
		bus.Subscribe(events.EventTypeOrderStatusChanged, collector.handle)
		bus.Subscribe(events.EventTypeOrderDeleted, collector.handle)

		resolver := &mockMechanicResolver{mechanics: map[int64]*auth.User{
			2: {ID: 2, Name: "Carlos Silva", Role: auth.RoleMechanic, Active: true},
		}}

		actor = &auth.User{ID: 1, Name: "Administrador", Role: auth.RoleAdmin, Active: true}
		service = order.NewService(repo, resolver, recorder, bus, logger)
	})

	Describe("CreateOrder", func() {
		It("should open the order as Pendente with an allocated number", func() {
			o, err := service.CreateOrder(ctx, validCreate, actor)

			Expect(err).ToNot(HaveOccurred())
			Expect(o.OrderNumber).To(Equal("OS-1001"))
			Expect(o.Status).To(Equal(order.StatusPending))
			Expect(o.TotalCost).To(BeZero())
		})

		It("should upper-case the plate", func() {
			o, err := service.CreateOrder(ctx, validCreate, actor)

			Expect(err).ToNot(HaveOccurred())
			Expect(o.Plate).To(Equal("ABC-1234"))
		})

		It("should record a creation audit entry", func() {
			o, err := service.CreateOrder(ctx, validCreate, actor)

			Expect(err).ToNot(HaveOccurred())
			Expect(recorder.entries).To(HaveLen(1))
			Expect(recorder.entries[0].Action).To(Equal(audit.ActionCreate))
			Expect(recorder.entries[0].Details).To(ContainSubstring(o.OrderNumber))
			Expect(recorder.entries[0].Details).To(ContainSubstring("Maria Souza"))
		})

		It("should publish an order created event", func() {
			_, err := service.CreateOrder(ctx, validCreate, actor)

			Expect(err).ToNot(HaveOccurred())
			Eventually(collector.types).Should(ContainElement(events.EventTypeOrderCreated))
		})

		It("should reject a payload with no plate", func() {
			dto := validCreate
			dto.Plate = ""
			_, err := service.CreateOrder(ctx, dto, actor)

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateOrder", func() {
		var existing *order.ServiceOrder

		BeforeEach(func() {
			var err error
			existing, err = service.CreateOrder(ctx, validCreate, actor)
			Expect(err).ToNot(HaveOccurred())
			recorder.entries = nil
		})

		It("should apply only the supplied fields", func() {
			labor := 150.0
			updated, err := service.UpdateOrder(ctx, existing.ID, order.UpdateOrderDTO{LaborCost: &labor}, actor)

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.LaborCost).To(Equal(150.0))
			Expect(updated.CustomerName).To(Equal("Maria Souza"))
			Expect(updated.Status).To(Equal(order.StatusPending))
		})

		It("should audit and publish a status change", func() {
			status := order.StatusInProgress
			updated, err := service.UpdateOrder(ctx, existing.ID, order.UpdateOrderDTO{Status: &status}, actor)

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Status).To(Equal(order.StatusInProgress))
			Expect(recorder.entries).To(HaveLen(1))
			Expect(recorder.entries[0].Details).To(ContainSubstring("Pendente"))
			Expect(recorder.entries[0].Details).To(ContainSubstring("Em Execução"))
			Eventually(collector.types).Should(ContainElement(events.EventTypeOrderStatusChanged))
		})

		It("should not audit when the status is unchanged", func() {
			status := order.StatusPending
			_, err := service.UpdateOrder(ctx, existing.ID, order.UpdateOrderDTO{Status: &status}, actor)

			Expect(err).ToNot(HaveOccurred())
			Expect(recorder.entries).To(BeEmpty())
		})

		It("should reject an unknown status value", func() {
			status := order.OSStatus("Inventado")
			_, err := service.UpdateOrder(ctx, existing.ID, order.UpdateOrderDTO{Status: &status}, actor)

			Expect(err).To(HaveOccurred())
		})

		It("should return not found for a missing order", func() {
			_, err := service.UpdateOrder(ctx, 999, order.UpdateOrderDTO{}, actor)
			Expect(err).To(Equal(order.ErrOrderNotFound))
		})
	})

	Describe("AddItem", func() {
		var existing *order.ServiceOrder

		BeforeEach(func() {
			var err error
			existing, err = service.CreateOrder(ctx, validCreate, actor)
			Expect(err).ToNot(HaveOccurred())
		})

		It("should fold a part into parts_cost and the total", func() {
			item, err := service.AddItem(existing.ID, order.AddItemDTO{
				Description: "Vela de ignição",
				ItemType:    order.ItemTypePart,
				Quantity:    4,
				UnitPrice:   25.50,
			}, actor)

			Expect(err).ToNot(HaveOccurred())
			Expect(item.TotalPrice).To(Equal(102.0))

			o, _ := repo.GetByID(existing.ID)
			Expect(o.PartsCost).To(Equal(102.0))
			Expect(o.LaborCost).To(BeZero())
			Expect(o.TotalCost).To(Equal(102.0))
		})

		It("should fold labor into labor_cost", func() {
			_, err := service.AddItem(existing.ID, order.AddItemDTO{
				Description: "Troca de velas",
				ItemType:    order.ItemTypeLabor,
				UnitPrice:   80,
			}, actor)

			Expect(err).ToNot(HaveOccurred())
			o, _ := repo.GetByID(existing.ID)
			Expect(o.LaborCost).To(Equal(80.0))
			Expect(o.PartsCost).To(BeZero())
		})

		It("should default the quantity to one", func() {
			item, err := service.AddItem(existing.ID, order.AddItemDTO{
				Description: "Filtro de óleo",
				ItemType:    order.ItemTypePart,
				UnitPrice:   35,
			}, actor)

			Expect(err).ToNot(HaveOccurred())
			Expect(item.Quantity).To(Equal(1))
			Expect(item.TotalPrice).To(Equal(35.0))
		})

		It("should reapply the discount when recomputing the total", func() {
			discount := 10.0
			_, err := service.UpdateOrder(ctx, existing.ID, order.UpdateOrderDTO{DiscountPercentage: &discount}, actor)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.AddItem(existing.ID, order.AddItemDTO{
				Description: "Revisão completa",
				ItemType:    order.ItemTypeLabor,
				UnitPrice:   200,
			}, actor)

			Expect(err).ToNot(HaveOccurred())
			o, _ := repo.GetByID(existing.ID)
			Expect(o.TotalCost).To(Equal(180.0))
		})

		It("should reject an invalid item type", func() {
			_, err := service.AddItem(existing.ID, order.AddItemDTO{
				Description: "???",
				ItemType:    order.ItemType("OTHER"),
				UnitPrice:   10,
			}, actor)

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("DeleteOrder", func() {
		var existing *order.ServiceOrder

		BeforeEach(func() {
			var err error
			existing, err = service.CreateOrder(ctx, validCreate, actor)
			Expect(err).ToNot(HaveOccurred())
			recorder.entries = nil
		})

		It("should remove the order and record the deletion", func() {
			Expect(service.DeleteOrder(ctx, existing.ID, actor)).To(Succeed())

			_, err := repo.GetByID(existing.ID)
			Expect(err).To(HaveOccurred())
			Expect(recorder.entries).To(HaveLen(1))
			Expect(recorder.entries[0].Action).To(Equal(audit.ActionDelete))
		})

		It("should publish an order deleted event", func() {
			Expect(service.DeleteOrder(ctx, existing.ID, actor)).To(Succeed())

			Eventually(collector.types).Should(ContainElement(events.EventTypeOrderDeleted))
		})

		It("should refuse to delete a paid order", func() {
			existing.Status = order.StatusPaid
			Expect(repo.Update(existing)).To(Succeed())

			err := service.DeleteOrder(ctx, existing.ID, actor)
			Expect(err).To(Equal(order.ErrOrderFinalized))
			Consistently(collector.types).Should(BeEmpty())
		})
	})

	Describe("ListOrders", func() {
		It("should reject an invalid status filter", func() {
			_, err := service.ListOrders(order.ListFilters{Status: order.OSStatus("Nope")})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetOrderDetail", func() {
		It("should attach items and the assigned mechanic", func() {
			o, err := service.CreateOrder(ctx, validCreate, actor)
			Expect(err).ToNot(HaveOccurred())

			mechanicID := int64(2)
			_, err = service.UpdateOrder(ctx, o.ID, order.UpdateOrderDTO{AssignedMechanicID: &mechanicID}, actor)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.AddItem(o.ID, order.AddItemDTO{
				Description: "Correia dentada",
				ItemType:    order.ItemTypePart,
				UnitPrice:   120,
			}, actor)
			Expect(err).ToNot(HaveOccurred())

			detail, err := service.GetOrderDetail(o.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(detail.Items).To(HaveLen(1))
			Expect(detail.AssignedMechanic).ToNot(BeNil())
			Expect(detail.AssignedMechanic.Name).To(Equal("Carlos Silva"))
		})

		It("should tolerate an unresolvable mechanic", func() {
			o, err := service.CreateOrder(ctx, validCreate, actor)
			Expect(err).ToNot(HaveOccurred())

			mechanicID := int64(42)
			_, err = service.UpdateOrder(ctx, o.ID, order.UpdateOrderDTO{AssignedMechanicID: &mechanicID}, actor)
			Expect(err).ToNot(HaveOccurred())

			detail, err := service.GetOrderDetail(o.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(detail.AssignedMechanic).To(BeNil())
		})
	})

	Describe("OrderStats", func() {
		It("should zero-fill every pipeline stage", func() {
			stats, err := service.OrderStats()

			Expect(err).ToNot(HaveOccurred())
			Expect(stats.Total).To(BeZero())
			Expect(stats.ByStatus).To(HaveLen(len(order.AllStatuses())))
			for _, status := range order.AllStatuses() {
				Expect(stats.ByStatus).To(HaveKeyWithValue(status, int64(0)))
			}
		})

		It("should report counts and paid revenue", func() {
			_, err := service.CreateOrder(ctx, validCreate, actor)
			Expect(err).ToNot(HaveOccurred())
			repo.paidRevenue = 1234.56

			stats, err := service.OrderStats()

			Expect(err).ToNot(HaveOccurred())
			Expect(stats.Total).To(Equal(int64(1)))
			Expect(stats.ByStatus[order.StatusPending]).To(Equal(int64(1)))
			Expect(stats.TotalRevenue).To(Equal(1234.56))
		})
	})
})
