package audit_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/osmech/workshop-management/internal/audit"
)

func TestAudit(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Audit Module Suite")
}

type mockAuditRepository struct {
	logs        []*audit.Log
	lastFilters audit.ListFilters
	createError error
}

func (m *mockAuditRepository) Create(entry *audit.Log) error {
	if m.createError != nil {
		return m.createError
	}
	entry.ID = int64(len(m.logs) + 1)
	m.logs = append(m.logs, entry)
	return nil
}

func (m *mockAuditRepository) List(filters audit.ListFilters) ([]*audit.Log, error) {
	m.lastFilters = filters
	var out []*audit.Log
	for _, l := range m.logs {
		if filters.Action != "" && l.Action != filters.Action {
			continue
		}
		if filters.UserID != 0 && l.UserID != filters.UserID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *mockAuditRepository) ListByTarget(targetID string) ([]*audit.Log, error) {
	var out []*audit.Log
	for _, l := range m.logs {
		if l.TargetID != nil && *l.TargetID == targetID {
			out = append(out, l)
		}
	}
	return out, nil
}

var _ = Describe("AuditService", func() {
	var (
		service *audit.Service
		repo    *mockAuditRepository
	)

	BeforeEach(func() {
		repo = &mockAuditRepository{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = audit.NewService(repo, logger)
	})

	Describe("Record", func() {
		It("should persist the entry with its timestamp", func() {
			entry := audit.NewEntry(audit.ActionLogin, nil, 1, "Administrador", "Login realizado: admin@osmech.com")

			Expect(service.Record(entry)).To(Succeed())
			Expect(repo.logs).To(HaveLen(1))
			Expect(repo.logs[0].Timestamp).ToNot(BeZero())
		})

		It("should surface repository failures to the caller", func() {
			repo.createError = errors.New("disk full")
			entry := audit.NewEntry(audit.ActionCreate, nil, 1, "Administrador", "x")

			Expect(service.Record(entry)).To(HaveOccurred())
		})
	})

	Describe("ListLogs", func() {
		BeforeEach(func() {
			orderNumber := "OS-1001"
			Expect(service.Record(audit.NewEntry(audit.ActionCreate, &orderNumber, 1, "Administrador", "OS OS-1001 criada"))).To(Succeed())
			Expect(service.Record(audit.NewEntry(audit.ActionLogin, nil, 2, "Carlos Silva", "Login realizado: carlos@osmech.com"))).To(Succeed())
		})

		It("should default the page size", func() {
			_, err := service.ListLogs(audit.ListFilters{})

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastFilters.Limit).To(Equal(100))
		})

		It("should cap an oversized page", func() {
			_, err := service.ListLogs(audit.ListFilters{Limit: 10000})

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastFilters.Limit).To(Equal(audit.MaxPageSize))
		})

		It("should filter by action", func() {
			logs, err := service.ListLogs(audit.ListFilters{Action: audit.ActionLogin})

			Expect(err).ToNot(HaveOccurred())
			Expect(logs).To(HaveLen(1))
			Expect(logs[0].UserName).To(Equal("Carlos Silva"))
		})
	})

	Describe("LogsForOrder", func() {
		It("should return only entries targeting the order number", func() {
			first := "OS-1001"
			second := "OS-1002"
			Expect(service.Record(audit.NewEntry(audit.ActionCreate, &first, 1, "Administrador", "OS OS-1001 criada"))).To(Succeed())
			Expect(service.Record(audit.NewEntry(audit.ActionUpdate, &first, 1, "Administrador", "OS OS-1001 - Status alterado"))).To(Succeed())
			Expect(service.Record(audit.NewEntry(audit.ActionCreate, &second, 1, "Administrador", "OS OS-1002 criada"))).To(Succeed())

			logs, err := service.LogsForOrder("OS-1001")

			Expect(err).ToNot(HaveOccurred())
			Expect(logs).To(HaveLen(2))
		})
	})
})
