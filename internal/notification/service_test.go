package notification_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/osmech/workshop-management/internal/auth"
	"github.com/osmech/workshop-management/internal/notification"
)

func TestNotification(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Module Suite")
}

type mockNotificationRepository struct {
	notifications map[int64]*notification.Notification
	nextID        int64
}

func newMockNotificationRepository() *mockNotificationRepository {
	return &mockNotificationRepository{
		notifications: make(map[int64]*notification.Notification),
		nextID:        1,
	}
}

func (m *mockNotificationRepository) Create(n *notification.Notification) error {
	n.ID = m.nextID
	m.nextID++
	m.notifications[n.ID] = n
	return nil
}

func (m *mockNotificationRepository) GetByID(id int64) (*notification.Notification, error) {
	n, ok := m.notifications[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return n, nil
}

func (m *mockNotificationRepository) visible(viewerID int64) []*notification.Notification {
	var out []*notification.Notification
	for _, n := range m.notifications {
		if n.VisibleTo(viewerID) {
			out = append(out, n)
		}
	}
	return out
}

func (m *mockNotificationRepository) ListVisible(viewerID int64, filters notification.ListFilters) ([]*notification.Notification, error) {
	var out []*notification.Notification
	for _, n := range m.visible(viewerID) {
		if filters.UnreadOnly && n.Read {
			continue
		}
		if filters.Category != "" && (n.Category == nil || *n.Category != filters.Category) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (m *mockNotificationRepository) CountVisible(viewerID int64, unreadOnly bool) (int64, error) {
	var count int64
	for _, n := range m.visible(viewerID) {
		if unreadOnly && n.Read {
			continue
		}
		count++
	}
	return count, nil
}

func (m *mockNotificationRepository) CountVisibleByType(viewerID int64) (map[notification.Type]int64, error) {
	counts := make(map[notification.Type]int64)
	for _, n := range m.visible(viewerID) {
		counts[n.Type]++
	}
	return counts, nil
}

func (m *mockNotificationRepository) CountVisibleByCategory(viewerID int64) (map[notification.Category]int64, error) {
	counts := make(map[notification.Category]int64)
	for _, n := range m.visible(viewerID) {
		if n.Category != nil {
			counts[*n.Category]++
		}
	}
	return counts, nil
}

func (m *mockNotificationRepository) Update(n *notification.Notification) error {
	m.notifications[n.ID] = n
	return nil
}

func (m *mockNotificationRepository) MarkAllRead(viewerID int64, at time.Time) (int64, error) {
	var count int64
	for _, n := range m.visible(viewerID) {
		if !n.Read {
			n.Read = true
			n.ReadAt = &at
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepository) Delete(n *notification.Notification) error {
	delete(m.notifications, n.ID)
	return nil
}

func (m *mockNotificationRepository) DeleteVisible(viewerID int64) (int64, error) {
	var count int64
	for id, n := range m.notifications {
		if n.VisibleTo(viewerID) {
			delete(m.notifications, id)
			count++
		}
	}
	return count, nil
}

var _ = Describe("NotificationService", func() {
	var (
		service  *notification.Service
		repo     *mockNotificationRepository
		admin    *auth.User
		mechanic *auth.User
	)

	BeforeEach(func() {
		repo = newMockNotificationRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = notification.NewService(repo, logger)

		admin = &auth.User{ID: 1, Name: "Administrador", Role: auth.RoleAdmin, Active: true}
		mechanic = &auth.User{ID: 2, Name: "Carlos Silva", Role: auth.RoleMechanic, Active: true}
	})

	Describe("CreateNotification", func() {
		It("should default the priority to normal", func() {
			n, err := service.CreateNotification(notification.CreateNotificationDTO{
				Type:    notification.TypeInfo,
				Title:   "Aviso",
				Message: "Oficina fecha mais cedo hoje",
			}, admin)

			Expect(err).ToNot(HaveOccurred())
			Expect(n.Priority).To(Equal(notification.PriorityNormal))
			Expect(n.Recipient().IsBroadcast()).To(BeTrue())
		})

		It("should let an admin target another user", func() {
			target := mechanic.ID
			n, err := service.CreateNotification(notification.CreateNotificationDTO{
				Type:    notification.TypeWarning,
				Title:   "Pendência",
				Message: "OS aguardando diagnóstico",
				UserID:  &target,
			}, admin)

			Expect(err).ToNot(HaveOccurred())
			Expect(n.UserID).ToNot(BeNil())
			Expect(*n.UserID).To(Equal(mechanic.ID))
		})

		It("should forbid a mechanic from targeting another user", func() {
			target := admin.ID
			_, err := service.CreateNotification(notification.CreateNotificationDTO{
				Type:    notification.TypeInfo,
				Title:   "Oi",
				Message: "mensagem",
				UserID:  &target,
			}, mechanic)

			Expect(err).To(HaveOccurred())
		})

		It("should let a mechanic notify themselves", func() {
			target := mechanic.ID
			_, err := service.CreateNotification(notification.CreateNotificationDTO{
				Type:    notification.TypeInfo,
				Title:   "Lembrete",
				Message: "Pedir peça amanhã",
				UserID:  &target,
			}, mechanic)

			Expect(err).ToNot(HaveOccurred())
		})

		It("should reject an invalid type", func() {
			_, err := service.CreateNotification(notification.CreateNotificationDTO{
				Type:    notification.Type("loud"),
				Title:   "x",
				Message: "y",
			}, admin)

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ListNotifications", func() {
		BeforeEach(func() {
			Expect(service.Notify(notification.Broadcast(), notification.TypeInfo, notification.PriorityNormal,
				"Nova OS OS-1001", "OS-1001 criada", notification.CategoryOrder, nil)).To(Succeed())
			Expect(service.Notify(notification.Personal(mechanic.ID), notification.TypeWarning, notification.PriorityHigh,
				"Pendência", "diagnóstico atrasado", notification.CategoryOrder, nil)).To(Succeed())
			Expect(service.Notify(notification.Personal(admin.ID), notification.TypeSystem, notification.PriorityLow,
				"Backup", "backup concluído", notification.CategorySystem, nil)).To(Succeed())
		})

		It("should show a user their own notifications plus broadcasts", func() {
			list, err := service.ListNotifications(mechanic, notification.ListFilters{})

			Expect(err).ToNot(HaveOccurred())
			Expect(list).To(HaveLen(2))
			for _, n := range list {
				Expect(n.VisibleTo(mechanic.ID)).To(BeTrue())
			}
		})

		It("should filter by category", func() {
			list, err := service.ListNotifications(admin, notification.ListFilters{Category: notification.CategorySystem})

			Expect(err).ToNot(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].Title).To(Equal("Backup"))
		})

		It("should reject an invalid category filter", func() {
			_, err := service.ListNotifications(admin, notification.ListFilters{Category: notification.Category("misc")})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SetRead", func() {
		var personal *notification.Notification

		BeforeEach(func() {
			Expect(service.Notify(notification.Personal(mechanic.ID), notification.TypeInfo, notification.PriorityNormal,
				"Pendência", "mensagem", notification.CategoryOrder, nil)).To(Succeed())
			personal = repo.notifications[1]
		})

		It("should stamp read_at when marking read", func() {
			read := true
			n, err := service.SetRead(personal.ID, notification.UpdateNotificationDTO{Read: &read}, mechanic)

			Expect(err).ToNot(HaveOccurred())
			Expect(n.Read).To(BeTrue())
			Expect(n.ReadAt).ToNot(BeNil())
		})

		It("should clear read_at when marking unread", func() {
			read := true
			_, err := service.SetRead(personal.ID, notification.UpdateNotificationDTO{Read: &read}, mechanic)
			Expect(err).ToNot(HaveOccurred())

			unread := false
			n, err := service.SetRead(personal.ID, notification.UpdateNotificationDTO{Read: &unread}, mechanic)

			Expect(err).ToNot(HaveOccurred())
			Expect(n.Read).To(BeFalse())
			Expect(n.ReadAt).To(BeNil())
		})

		It("should refuse a viewer who cannot see the notification", func() {
			read := true
			_, err := service.SetRead(personal.ID, notification.UpdateNotificationDTO{Read: &read}, admin)

			Expect(err).To(Equal(notification.ErrNotOwner))
		})

		It("should return not found for a missing notification", func() {
			read := true
			_, err := service.SetRead(404, notification.UpdateNotificationDTO{Read: &read}, mechanic)

			Expect(err).To(Equal(notification.ErrNotificationNotFound))
		})
	})

	Describe("MarkAllRead", func() {
		It("should mark every visible unread notification", func() {
			Expect(service.Notify(notification.Broadcast(), notification.TypeInfo, notification.PriorityNormal,
				"a", "a", notification.CategorySystem, nil)).To(Succeed())
			Expect(service.Notify(notification.Personal(mechanic.ID), notification.TypeInfo, notification.PriorityNormal,
				"b", "b", notification.CategoryOrder, nil)).To(Succeed())
			Expect(service.Notify(notification.Personal(admin.ID), notification.TypeInfo, notification.PriorityNormal,
				"c", "c", notification.CategoryOrder, nil)).To(Succeed())

			count, err := service.MarkAllRead(mechanic)

			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(Equal(int64(2)))
		})
	})

	Describe("NotificationStats", func() {
		It("should count totals, unread and breakdowns over the visible set", func() {
			Expect(service.Notify(notification.Broadcast(), notification.TypeInfo, notification.PriorityNormal,
				"a", "a", notification.CategoryOrder, nil)).To(Succeed())
			Expect(service.Notify(notification.Personal(mechanic.ID), notification.TypeWarning, notification.PriorityHigh,
				"b", "b", notification.CategoryOrder, nil)).To(Succeed())
			Expect(service.Notify(notification.Personal(admin.ID), notification.TypeError, notification.PriorityUrgent,
				"c", "c", notification.CategorySystem, nil)).To(Succeed())

			read := true
			_, err := service.SetRead(1, notification.UpdateNotificationDTO{Read: &read}, mechanic)
			Expect(err).ToNot(HaveOccurred())

			stats, err := service.NotificationStats(mechanic)

			Expect(err).ToNot(HaveOccurred())
			Expect(stats.Total).To(Equal(int64(2)))
			Expect(stats.Unread).To(Equal(int64(1)))
			Expect(stats.ByType[notification.TypeInfo]).To(Equal(int64(1)))
			Expect(stats.ByType[notification.TypeWarning]).To(Equal(int64(1)))
			Expect(stats.ByCategory[notification.CategoryOrder]).To(Equal(int64(2)))
		})
	})

	Describe("DeleteNotification and ClearAll", func() {
		It("should refuse to delete someone else's notification", func() {
			Expect(service.Notify(notification.Personal(admin.ID), notification.TypeInfo, notification.PriorityNormal,
				"a", "a", notification.CategorySystem, nil)).To(Succeed())

			Expect(service.DeleteNotification(1, mechanic)).To(Equal(notification.ErrNotOwner))
		})

		It("should clear only the visible set", func() {
			Expect(service.Notify(notification.Broadcast(), notification.TypeInfo, notification.PriorityNormal,
				"a", "a", notification.CategorySystem, nil)).To(Succeed())
			Expect(service.Notify(notification.Personal(mechanic.ID), notification.TypeInfo, notification.PriorityNormal,
				"b", "b", notification.CategoryOrder, nil)).To(Succeed())
			Expect(service.Notify(notification.Personal(admin.ID), notification.TypeInfo, notification.PriorityNormal,
				"c", "c", notification.CategoryOrder, nil)).To(Succeed())

			count, err := service.ClearAll(mechanic)

			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(Equal(int64(2)))
			Expect(repo.notifications).To(HaveLen(1))
		})
	})
})
