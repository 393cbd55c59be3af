package middleware_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/akwasiboateng/campus-market/internal/transport/middleware"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var _ = Describe("AdminAuth", func() {
	const secret = "test-secret-that-is-long-enough-0123456789"

	var (
		guarded http.Handler
		reached bool
	)

	BeforeEach(func() {
		reached = false
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusOK)
		})
		guarded = middleware.AdminAuth(secret, logger)(next)
	})

	request := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/sync", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		return rec
	}

	It("should pass a freshly minted token through", func() {
		token, err := middleware.NewAdminToken(secret, time.Minute)
		Expect(err).ToNot(HaveOccurred())

		rec := request(token)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(reached).To(BeTrue())
	})

	It("should reject a missing token", func() {
		rec := request("")
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(reached).To(BeFalse())
	})

	It("should reject a token signed with another secret", func() {
		token, err := middleware.NewAdminToken("a-completely-different-secret-0123456789", time.Minute)
		Expect(err).ToNot(HaveOccurred())

		rec := request(token)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(reached).To(BeFalse())
	})

	It("should reject an expired token", func() {
		token, err := middleware.NewAdminToken(secret, -time.Minute)
		Expect(err).ToNot(HaveOccurred())

		rec := request(token)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(reached).To(BeFalse())
	})

	It("should reject garbage", func() {
		rec := request("not-a-jwt")
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(reached).To(BeFalse())
	})
})
