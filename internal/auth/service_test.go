package auth_test

import (
	"errors"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/osmech/workshop-management/internal/audit"
	"github.com/osmech/workshop-management/internal/auth"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Module Suite")
}

type mockUserRepository struct {
	users    map[string]*auth.User
	hashes   map[string]string
	byID     map[int64]*auth.User
	getError error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:  make(map[string]*auth.User),
		hashes: make(map[string]string),
		byID:   make(map[int64]*auth.User),
	}
}

func (m *mockUserRepository) addUser(u *auth.User, password string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	m.users[u.Email] = u
	m.hashes[u.Email] = string(hash)
	m.byID[u.ID] = u
}

func (m *mockUserRepository) GetByEmail(email string) (*auth.User, string, error) {
	if m.getError != nil {
		return nil, "", m.getError
	}
	u, ok := m.users[email]
	if !ok {
		return nil, "", errors.New("not found")
	}
	return u, m.hashes[email], nil
}

func (m *mockUserRepository) GetByID(userID int64) (*auth.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	u, ok := m.byID[userID]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

type mockRecorder struct {
	entries []*audit.Log
	err     error
}

func (m *mockRecorder) Record(entry *audit.Log) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

var _ = Describe("AuthService", func() {
	var (
		service  *auth.Service
		repo     *mockUserRepository
		recorder *mockRecorder
		tokenGen *auth.JWTTokenGenerator
	)

	BeforeEach(func() {
		repo = newMockUserRepository()
		recorder = &mockRecorder{}
		tokenGen = auth.NewJWTTokenGenerator("test-secret-that-is-long-enough-0123", time.Hour)
		service = auth.NewService(repo, tokenGen, recorder, bcrypt.MinCost)

		repo.addUser(&auth.User{
			ID:     1,
			Name:   "Administrador",
			Email:  "admin@osmech.com",
			Role:   auth.RoleAdmin,
			Active: true,
		}, "admin123")
	})

	Describe("Authenticate", func() {
		Context("with valid credentials", func() {
			It("should return a token and the user", func() {
				token, user, err := service.Authenticate(auth.LoginDTO{
					Email:    "admin@osmech.com",
					Password: "admin123",
				})

				Expect(err).ToNot(HaveOccurred())
				Expect(token).ToNot(BeEmpty())
				Expect(user.Email).To(Equal("admin@osmech.com"))
				Expect(user.Role).To(Equal(auth.RoleAdmin))
			})

			It("should record a login audit entry", func() {
				_, _, err := service.Authenticate(auth.LoginDTO{
					Email:    "admin@osmech.com",
					Password: "admin123",
				})

				Expect(err).ToNot(HaveOccurred())
				Expect(recorder.entries).To(HaveLen(1))
				Expect(recorder.entries[0].Action).To(Equal(audit.ActionLogin))
				Expect(recorder.entries[0].Details).To(ContainSubstring("admin@osmech.com"))
			})
		})

		Context("with a wrong password", func() {
			It("should return invalid credentials", func() {
				_, _, err := service.Authenticate(auth.LoginDTO{
					Email:    "admin@osmech.com",
					Password: "wrong",
				})

				Expect(err).To(Equal(auth.ErrInvalidCredentials))
			})
		})

		Context("with an unknown email", func() {
			It("should return the same invalid credentials error", func() {
				_, _, err := service.Authenticate(auth.LoginDTO{
					Email:    "ghost@osmech.com",
					Password: "admin123",
				})

				Expect(err).To(Equal(auth.ErrInvalidCredentials))
			})
		})

		Context("with a deactivated account", func() {
			It("should not reveal the account exists", func() {
				repo.addUser(&auth.User{
					ID:     2,
					Name:   "Inativo",
					Email:  "inactive@osmech.com",
					Role:   auth.RoleMechanic,
					Active: false,
				}, "123456")

				_, _, err := service.Authenticate(auth.LoginDTO{
					Email:    "inactive@osmech.com",
					Password: "123456",
				})

				Expect(err).To(Equal(auth.ErrInvalidCredentials))
			})
		})

		Context("with a malformed payload", func() {
			It("should reject a missing email", func() {
				_, _, err := service.Authenticate(auth.LoginDTO{Password: "x"})
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("ResolveToken", func() {
		It("should resolve a freshly issued token to its user", func() {
			token, _, err := service.Authenticate(auth.LoginDTO{
				Email:    "admin@osmech.com",
				Password: "admin123",
			})
			Expect(err).ToNot(HaveOccurred())

			user, err := service.ResolveToken(token)
			Expect(err).ToNot(HaveOccurred())
			Expect(user.ID).To(Equal(int64(1)))
		})

		It("should reject garbage tokens", func() {
			_, err := service.ResolveToken("not-a-token")
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})

		It("should reject expired tokens", func() {
			expiredGen := &auth.JWTTokenGenerator{
				Secret:   []byte("test-secret-that-is-long-enough-0123"),
				TokenTTL: -time.Hour,
			}
			token, err := expiredGen.GenerateAccessToken(1, "admin@osmech.com")
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ResolveToken(token)
			Expect(err).To(Equal(auth.ErrTokenExpired))
		})

		It("should reject a token for a user deactivated after issuance", func() {
			token, _, err := service.Authenticate(auth.LoginDTO{
				Email:    "admin@osmech.com",
				Password: "admin123",
			})
			Expect(err).ToNot(HaveOccurred())

			repo.byID[1].Active = false

			_, err = service.ResolveToken(token)
			Expect(err).To(Equal(auth.ErrUserInactive))
		})
	})

	Describe("HashPassword", func() {
		It("should produce a hash that verifies", func() {
			hash, err := service.HashPassword("s3cret")
			Expect(err).ToNot(HaveOccurred())
			Expect(bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret"))).To(Succeed())
		})
	})
})
