package audit_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/osmech/workshop-management/internal/audit"
)

type mockAuditService struct {
	lastFilters audit.ListFilters
	logs        []*audit.Log
}

func (m *mockAuditService) ListLogs(filters audit.ListFilters) ([]*audit.Log, error) {
	m.lastFilters = filters
	return m.logs, nil
}

func (m *mockAuditService) LogsForOrder(orderNumber string) ([]*audit.Log, error) {
	return m.logs, nil
}

var _ = Describe("AuditHandler", func() {
	var (
		handler *audit.Handler
		service *mockAuditService
	)

	BeforeEach(func() {
		service = &mockAuditService{}
		handler = audit.NewHandler(service)
	})

	Describe("ListLogs", func() {
		It("should forward action and user_id query filters", func() {
			req := httptest.NewRequest(http.MethodGet, "/logs?action=LOGIN&user_id=2&limit=10&offset=5", nil)
			rec := httptest.NewRecorder()

			handler.ListLogs(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.lastFilters.Action).To(Equal(audit.ActionLogin))
			Expect(service.lastFilters.UserID).To(Equal(int64(2)))
			Expect(service.lastFilters.Limit).To(Equal(10))
			Expect(service.lastFilters.Offset).To(Equal(5))
		})

		It("should leave filters zero when no params are given", func() {
			req := httptest.NewRequest(http.MethodGet, "/logs", nil)
			rec := httptest.NewRecorder()

			handler.ListLogs(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.lastFilters.Action).To(BeEmpty())
			Expect(service.lastFilters.UserID).To(BeZero())
		})
	})

	Describe("ListActions", func() {
		It("should return the fixed action vocabulary", func() {
			req := httptest.NewRequest(http.MethodGet, "/logs/actions", nil)
			rec := httptest.NewRecorder()

			handler.ListActions(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var actions []string
			Expect(json.Unmarshal(rec.Body.Bytes(), &actions)).To(Succeed())
			Expect(actions).To(Equal(audit.Actions()))
		})
	})
})
